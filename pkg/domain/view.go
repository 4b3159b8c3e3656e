package domain

// View is the read-only projection of a session that renderers consume.
type View struct {
	// Node is a copy of the node the session currently points at.
	Node Node `json:"node"`

	// Terminal indicates the walk has ended and Node carries a recommendation.
	Terminal bool `json:"terminal"`

	// CanGoBack indicates at least one step can be undone.
	CanGoBack bool `json:"can_go_back"`
}
