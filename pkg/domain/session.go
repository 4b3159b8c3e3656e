package domain

// Session represents the current snapshot of one walk through a graph.
// Sessions are value snapshots: engine operations never mutate their
// argument, they return a fresh session instead. Holding an older
// snapshot is therefore a free undo point.
type Session struct {
	// CurrentID is the identifier of the active node.
	CurrentID string `json:"current_id"`

	// Path tracks every node visited so far, root first, current last.
	Path []string `json:"path"`
}

// NewSession creates a clean session positioned at the given root.
func NewSession(rootID string) *Session {
	return &Session{
		CurrentID: rootID,
		Path:      []string{rootID},
	}
}

// Clone returns a deep copy sharing no state with the receiver.
func (s *Session) Clone() *Session {
	return &Session{
		CurrentID: s.CurrentID,
		Path:      append([]string(nil), s.Path...),
	}
}

// AtRoot reports whether the session has no step to undo.
func (s *Session) AtRoot() bool {
	return len(s.Path) <= 1
}
