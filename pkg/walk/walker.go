package walk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Walker runs the interactive loop of a walk using provided IO.
// This allows for easy testing and integration with different frontends.
type Walker struct {
	// Handler is the strategy for IO. If nil, a TextHandler over
	// Input/Output is created on first Run.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Store is the persistence adapter for durable walks.
	// If nil, sessions are ephemeral.
	Store ports.SessionStore

	// SessionID is the key the session is saved under after every
	// accepted step. Empty disables persistence even with a Store.
	SessionID string

	// Input, Output and Renderer configure the default TextHandler.
	Input    io.Reader
	Output   io.Writer
	Renderer ContentRenderer
}

// NewWalker creates a new Walker with default Stdin/Stdout.
func NewWalker(opts ...Option) *Walker {
	w := &Walker{
		Input:  os.Stdin,
		Output: os.Stdout,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run executes the walk loop until a leaf is reached, the input ends, or
// the context is cancelled. If initial is nil, engine.Start() creates a
// fresh session. The session reached so far is always returned, so
// callers can report or persist the stopping point.
func (w *Walker) Run(ctx context.Context, engine ports.Engine, initial *domain.Session) (*domain.Session, error) {
	handler := w.resolveHandler()

	sess := initial
	if sess == nil {
		sess = engine.Start()
		if err := w.saveSession(ctx, sess); err != nil {
			return sess, fmt.Errorf("critical persistence error: %w", err)
		}
	}

	for {
		view, err := engine.View(sess)
		if err != nil {
			return sess, fmt.Errorf("render error: %w", err)
		}

		needsInput, err := handler.Output(ctx, view)
		if err != nil {
			return sess, fmt.Errorf("output error: %w", err)
		}
		if !needsInput {
			w.Logger.Debug("walk finished", "node_id", sess.CurrentID)
			return sess, nil
		}

		raw, err := handler.Input(ctx)
		if err != nil {
			if err == io.EOF {
				return sess, nil
			}
			if ctx.Err() != nil {
				return sess, ctx.Err()
			}
			return sess, fmt.Errorf("input error: %w", err)
		}

		next, retry, err := w.dispatch(ctx, engine, handler, sess, view, raw)
		if err != nil {
			if err == io.EOF {
				return sess, nil
			}
			return sess, err
		}
		if retry {
			continue
		}

		if err := w.saveSession(ctx, next); err != nil {
			return sess, fmt.Errorf("critical persistence error: %w", err)
		}
		sess = next
	}
}

// dispatch interprets one line of input against the current view.
// Returns the advanced session, or retry=true when the input was
// consumed (command or rejected choice) without advancing the walk.
// Quit commands surface as io.EOF.
func (w *Walker) dispatch(ctx context.Context, engine ports.Engine, handler IOHandler, sess *domain.Session, view domain.View, raw string) (*domain.Session, bool, error) {
	switch strings.ToLower(raw) {
	case "":
		return nil, true, nil

	case "q", "quit", "exit":
		return nil, false, io.EOF

	case "b", "back":
		next, err := engine.Back(sess)
		if err != nil {
			if errors.Is(err, domain.ErrAtRoot) {
				handler.SystemOutput(ctx, "Already at the first question.")
				return nil, true, nil
			}
			return nil, false, err
		}
		return next, false, nil

	case "r", "reset", "restart":
		return engine.Reset(sess), false, nil

	default:
		idx, ok := parseChoice(raw, view.Node)
		if !ok {
			handler.SystemOutput(ctx, fmt.Sprintf("Unrecognized choice %q. Enter an option number.", raw))
			return nil, true, nil
		}
		next, err := engine.Choose(sess, idx)
		if err != nil {
			if errors.Is(err, domain.ErrOptionOutOfRange) {
				handler.SystemOutput(ctx, fmt.Sprintf("Pick a number between 1 and %d.", len(view.Node.Options)))
				return nil, true, nil
			}
			return nil, false, err
		}
		return next, false, nil
	}
}

// parseChoice maps input to a zero-based option index. Numbers are
// 1-based to match the displayed menu; option labels match
// case-insensitively.
func parseChoice(raw string, node domain.Node) (int, bool) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n - 1, true
	}
	for i, opt := range node.Options {
		if strings.EqualFold(opt.Label, raw) {
			return i, true
		}
	}
	return 0, false
}

func (w *Walker) resolveHandler() IOHandler {
	if w.Handler != nil {
		return w.Handler
	}
	th := NewTextHandler(w.Input, w.Output)
	th.Renderer = w.Renderer
	// Memoize to prevent creating new pumps on subsequent Run() calls
	w.Handler = th
	return th
}

func (w *Walker) saveSession(ctx context.Context, sess *domain.Session) error {
	if w.Store != nil && w.SessionID != "" {
		if err := w.Store.Save(ctx, w.SessionID, sess); err != nil {
			return err
		}
		w.Logger.Debug("session saved", "session_id", w.SessionID, "node_id", sess.CurrentID)
	}
	return nil
}
