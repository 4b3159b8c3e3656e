package cli

import (
	"fmt"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Path      string // graph document or node directory
	Root      string // entry point override for directory sources
	Watch     bool
	JSON      bool
	Debug     bool
	SessionID string
	Fresh     bool
	RedisURL  string
	StorePath string // base directory for file-backed sessions
}

// Execute handles the 'run' command logic, dispatching to Session or Watch mode.
func Execute(opts RunOptions) error {
	if opts.Watch {
		if opts.JSON {
			// Watch mode owns the terminal; JSON-lines clients reload themselves.
			return fmt.Errorf("--watch and --json cannot be used together")
		}
		RunWatch(opts)
		return nil
	}

	// Session Mode
	// Handle Fresh reset here for Session mode to mirror Watch mode behavior
	if opts.Fresh {
		ResetSession(opts)
	}

	return RunSession(opts)
}
