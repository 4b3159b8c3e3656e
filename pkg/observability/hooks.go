package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/espalier/pkg/domain"
)

// Combine fans engine events out to every given hook set, in order.
// The engine accepts a single LifecycleHooks value; Combine is how a
// deployment attaches metrics, logging and custom consumers at once.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(e *domain.NodeEvent) {
			for _, h := range hooks {
				if h.OnSessionStart != nil {
					h.OnSessionStart(e)
				}
			}
		},
		OnNodeEnter: func(e *domain.NodeEvent) {
			for _, h := range hooks {
				if h.OnNodeEnter != nil {
					h.OnNodeEnter(e)
				}
			}
		},
		OnChoice: func(e *domain.ChoiceEvent) {
			for _, h := range hooks {
				if h.OnChoice != nil {
					h.OnChoice(e)
				}
			}
		},
		OnStepBack: func(e *domain.NodeEvent) {
			for _, h := range hooks {
				if h.OnStepBack != nil {
					h.OnStepBack(e)
				}
			}
		},
	}
}

// NewLogHooks returns hooks that write every engine event to the logger
// at the given level.
func NewLogHooks(logger *slog.Logger, level slog.Level) domain.LifecycleHooks {
	log := func(msg string, args ...any) {
		logger.Log(context.Background(), level, msg, args...)
	}
	return domain.LifecycleHooks{
		OnSessionStart: func(e *domain.NodeEvent) {
			log("Session Start", "node_id", e.NodeID)
		},
		OnNodeEnter: func(e *domain.NodeEvent) {
			log("Enter Node", "node_id", e.NodeID, "kind", e.Kind)
		},
		OnChoice: func(e *domain.ChoiceEvent) {
			log("Choice Taken", "node_id", e.NodeID, "option", e.OptionIndex, "label", e.Label, "target", e.TargetID)
		},
		OnStepBack: func(e *domain.NodeEvent) {
			log("Step Back", "node_id", e.NodeID)
		},
	}
}
