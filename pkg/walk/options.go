package walk

import (
	"io"
	"log/slog"

	"github.com/aretw0/espalier/pkg/ports"
)

// Option defines a functional option for configuring the Walker.
type Option func(*Walker)

// WithStore configures the SessionStore for persistence.
func WithStore(store ports.SessionStore) Option {
	return func(w *Walker) {
		w.Store = store
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.Logger = logger
		}
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(w *Walker) {
		w.Handler = handler
	}
}

// WithSessionID sets the session ID for persistence context.
// This is required if WithStore is used.
func WithSessionID(id string) Option {
	return func(w *Walker) {
		w.SessionID = id
	}
}

// WithRenderer configures the content renderer (e.g. TUI, Markdown).
func WithRenderer(renderer ContentRenderer) Option {
	return func(w *Walker) {
		w.Renderer = renderer
	}
}

// WithIO overrides the reader and writer used by the default TextHandler.
func WithIO(r io.Reader, out io.Writer) Option {
	return func(w *Walker) {
		if r != nil {
			w.Input = r
		}
		if out != nil {
			w.Output = out
		}
	}
}
