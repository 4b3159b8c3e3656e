package observability

import (
	"sync"

	"github.com/aretw0/espalier/pkg/domain"
)

// TrailEntry is one recorded engine event, flattened for assertions and
// display.
type TrailEntry struct {
	Type     domain.EventType
	NodeID   string
	Label    string
	TargetID string
}

// Recorder accumulates engine events in memory. Tests and demos use it
// to assert on, or replay, the event trail of a walk. Safe for
// concurrent use.
type Recorder struct {
	mu    sync.Mutex
	trail []TrailEntry
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Hooks returns the lifecycle hooks that feed this recorder. Combine
// with other hook sets to record alongside metrics or logging.
func (r *Recorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(e *domain.NodeEvent) {
			r.append(TrailEntry{Type: e.Type, NodeID: e.NodeID})
		},
		OnNodeEnter: func(e *domain.NodeEvent) {
			r.append(TrailEntry{Type: e.Type, NodeID: e.NodeID})
		},
		OnChoice: func(e *domain.ChoiceEvent) {
			r.append(TrailEntry{Type: e.Type, NodeID: e.NodeID, Label: e.Label, TargetID: e.TargetID})
		},
		OnStepBack: func(e *domain.NodeEvent) {
			r.append(TrailEntry{Type: e.Type, NodeID: e.NodeID})
		},
	}
}

// Trail returns a copy of the recorded events, in order.
func (r *Recorder) Trail() []TrailEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]TrailEntry(nil), r.trail...)
}

// Reset discards everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trail = nil
}

func (r *Recorder) append(e TrailEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trail = append(r.trail, e)
}
