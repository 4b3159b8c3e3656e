package walk

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the view to the user.
	// Returns true if the output requires user input, i.e. the view is a
	// question waiting for a choice.
	Output(ctx context.Context, view domain.View) (bool, error)

	// Input reads a response from the user.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message to the user (e.g. rejected
	// input, session status). This is distinct from content rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling this package.
type ContentRenderer func(string) (string, error)
