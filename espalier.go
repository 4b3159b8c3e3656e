package espalier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Engine is the high-level entry point for the Espalier library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime *runtime.Engine
	source  ports.GraphSource
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes an Engine over an already-constructed graph.
// The graph is validated eagerly: a structurally broken graph is
// rejected here with the full defect report, and no session can ever
// be created over it.
func New(g *domain.Graph, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	rt, err := runtime.NewEngine(g,
		runtime.WithLogger(eng.logger),
		runtime.WithHooks(eng.hooks),
	)
	if err != nil {
		return nil, err
	}
	eng.runtime = rt
	return eng, nil
}

// Open loads a graph from the given source and initializes an Engine
// over it. The source stays attached, so Watch can observe it.
func Open(ctx context.Context, source ports.GraphSource, opts ...Option) (*Engine, error) {
	g, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	eng, err := New(g, opts...)
	if err != nil {
		return nil, err
	}
	eng.source = source
	return eng, nil
}

// Start creates a fresh session positioned at the graph root.
func (e *Engine) Start() *domain.Session {
	return e.runtime.Start()
}

// View projects the session into what a renderer needs, without
// advancing it.
func (e *Engine) View(s *domain.Session) (domain.View, error) {
	return e.runtime.View(s)
}

// Choose takes the option at the given index on the current question
// node. The returned session is new; the argument is left intact and
// remains a valid undo point.
func (e *Engine) Choose(s *domain.Session, option int) (*domain.Session, error) {
	return e.runtime.Choose(s, option)
}

// Back undoes the most recent choice.
func (e *Engine) Back(s *domain.Session) (*domain.Session, error) {
	return e.runtime.Back(s)
}

// Reset abandons the walk and returns a fresh session at the root.
func (e *Engine) Reset(s *domain.Session) *domain.Session {
	return e.runtime.Reset(s)
}

// Graph returns the engine's graph for introspection and visualization
// tools.
func (e *Engine) Graph() *domain.Graph {
	return e.runtime.Graph()
}

// Watch returns a channel that signals when the underlying source
// changes. Returns an error if the engine was not opened from a source,
// or the source does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := e.source.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current source does not support watching")
}

// Source returns the GraphSource the engine was opened from, or nil if
// it was constructed directly over a graph.
func (e *Engine) Source() ports.GraphSource {
	return e.source
}
