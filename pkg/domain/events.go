package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSessionStart EventType = "session_start"
	EventNodeEnter    EventType = "node_enter"
	EventChoice       EventType = "choice"
	EventStepBack     EventType = "step_back"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NodeEvent represents arrival at a node.
type NodeEvent struct {
	EventBase
	NodeID string `json:"node_id"`
	Kind   Kind   `json:"kind"`
}

// ChoiceEvent represents an option being taken on a question node.
type ChoiceEvent struct {
	EventBase
	NodeID      string `json:"node_id"`
	OptionIndex int    `json:"option_index"`
	Label       string `json:"label"`
	TargetID    string `json:"target_id"`
}

// LifecycleHooks defines callbacks for engine observability. Hooks run
// synchronously on the calling goroutine; nil entries are skipped.
type LifecycleHooks struct {
	OnSessionStart func(*NodeEvent)
	OnNodeEnter    func(*NodeEvent)
	OnChoice       func(*ChoiceEvent)
	OnStepBack     func(*NodeEvent)
}
