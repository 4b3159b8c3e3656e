// Package runtime implements the traversal engine over a validated
// decision graph. The engine is stateless with respect to sessions:
// every operation takes a session snapshot and returns a new one,
// never mutating its argument. All methods are safe for concurrent
// use because nothing in the engine changes after construction.
package runtime

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/validate"
)

// Engine walks a decision graph.
type Engine struct {
	graph  *domain.Graph
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = h
	}
}

// NewEngine validates the graph eagerly and returns an engine over it.
// A structurally broken graph is rejected here with the full defect
// report; no session can ever exist over an invalid graph.
func NewEngine(g *domain.Graph, opts ...Option) (*Engine, error) {
	if rep := validate.Graph(g); !rep.Valid() {
		return nil, rep.Err()
	}
	e := &Engine{
		graph:  g,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Graph returns the engine's graph.
func (e *Engine) Graph() *domain.Graph {
	return e.graph
}

// Start creates a fresh session positioned at the root.
func (e *Engine) Start() *domain.Session {
	s := domain.NewSession(e.graph.RootID())
	e.logger.Debug("session started", "root", s.CurrentID)
	e.emitSessionStart(s.CurrentID)
	return s
}

// View projects the session into what a renderer needs. It does not
// mutate the session.
func (e *Engine) View(s *domain.Session) (domain.View, error) {
	n, ok := e.graph.Node(s.CurrentID)
	if !ok {
		return domain.View{}, fmt.Errorf("session points at %q: %w", s.CurrentID, domain.ErrUnknownNode)
	}
	return domain.View{
		Node:      n,
		Terminal:  n.Terminal(),
		CanGoBack: !s.AtRoot(),
	}, nil
}

// Choose takes the option at the given index on the current question
// node and returns the advanced session. The argument session is left
// intact, so callers may keep it as an undo point.
func (e *Engine) Choose(s *domain.Session, option int) (*domain.Session, error) {
	n, ok := e.graph.Node(s.CurrentID)
	if !ok {
		return nil, fmt.Errorf("session points at %q: %w", s.CurrentID, domain.ErrUnknownNode)
	}
	if n.Terminal() {
		return nil, fmt.Errorf("node %q is terminal: %w", n.ID, domain.ErrInvalidTransition)
	}
	if option < 0 || option >= len(n.Options) {
		return nil, fmt.Errorf("option %d on node %q with %d option(s): %w",
			option, n.ID, len(n.Options), domain.ErrOptionOutOfRange)
	}

	chosen := n.Options[option]
	next := s.Clone()
	next.CurrentID = chosen.TargetID
	next.Path = append(next.Path, chosen.TargetID)

	e.logger.Debug("choice taken", "node", n.ID, "option", option, "target", chosen.TargetID)
	e.emitChoice(n.ID, option, chosen)
	e.emitNodeEnter(chosen.TargetID)
	return next, nil
}

// Back undoes the most recent choice and returns the rewound session.
func (e *Engine) Back(s *domain.Session) (*domain.Session, error) {
	if _, ok := e.graph.Node(s.CurrentID); !ok {
		return nil, fmt.Errorf("session points at %q: %w", s.CurrentID, domain.ErrUnknownNode)
	}
	if s.AtRoot() {
		return nil, fmt.Errorf("session at %q: %w", s.CurrentID, domain.ErrAtRoot)
	}

	next := s.Clone()
	next.Path = next.Path[:len(next.Path)-1]
	next.CurrentID = next.Path[len(next.Path)-1]

	if _, ok := e.graph.Node(next.CurrentID); !ok {
		return nil, fmt.Errorf("path rewinds to %q: %w", next.CurrentID, domain.ErrUnknownNode)
	}

	e.logger.Debug("stepped back", "from", s.CurrentID, "to", next.CurrentID)
	e.emitStepBack(next.CurrentID)
	return next, nil
}

// Reset abandons the walk and returns a fresh session at the root. The
// argument session is left intact.
func (e *Engine) Reset(s *domain.Session) *domain.Session {
	e.logger.Debug("session reset", "from", s.CurrentID)
	return e.Start()
}

func (e *Engine) emitSessionStart(nodeID string) {
	if e.hooks.OnSessionStart == nil {
		return
	}
	e.hooks.OnSessionStart(e.nodeEvent(domain.EventSessionStart, nodeID))
}

func (e *Engine) emitNodeEnter(nodeID string) {
	if e.hooks.OnNodeEnter == nil {
		return
	}
	e.hooks.OnNodeEnter(e.nodeEvent(domain.EventNodeEnter, nodeID))
}

func (e *Engine) emitStepBack(nodeID string) {
	if e.hooks.OnStepBack == nil {
		return
	}
	e.hooks.OnStepBack(e.nodeEvent(domain.EventStepBack, nodeID))
}

func (e *Engine) emitChoice(nodeID string, index int, opt domain.Option) {
	if e.hooks.OnChoice == nil {
		return
	}
	e.hooks.OnChoice(&domain.ChoiceEvent{
		EventBase:   domain.EventBase{Timestamp: time.Now(), Type: domain.EventChoice},
		NodeID:      nodeID,
		OptionIndex: index,
		Label:       opt.Label,
		TargetID:    opt.TargetID,
	})
}

func (e *Engine) nodeEvent(t domain.EventType, nodeID string) *domain.NodeEvent {
	ev := &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: t},
		NodeID:    nodeID,
	}
	if n, ok := e.graph.Node(nodeID); ok {
		ev.Kind = n.Kind
	}
	return ev
}
