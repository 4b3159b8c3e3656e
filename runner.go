package espalier

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// Runner drives an Engine over plain reader/writer IO. It is the
// smallest loop for embedding a walk into another program; pkg/walk
// carries the full-featured version with persistence and pluggable
// handlers.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms content before output.
// This allows for TUI rendering (markdown to ANSI) without coupling the
// core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a new Runner. Input and Output must be set before
// Run (use os.Stdin and os.Stdout for a terminal).
func NewRunner() *Runner {
	return &Runner{}
}

// Run walks the engine's graph until a recommendation is reached, the
// input ends, or the user quits. Options are chosen by their displayed
// number or by label; "b" steps back and "q" quits.
func (r *Runner) Run(engine *Engine) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	reader := bufio.NewReader(r.Input)
	writer := r.Output

	sess := engine.Start()
	lastRenderedID := ""

	for {
		view, err := engine.View(sess)
		if err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// Only print when the node changed; rejected input re-prompts
		// without repeating the question.
		if sess.CurrentID != lastRenderedID {
			r.printView(writer, view)
			lastRenderedID = sess.CurrentID
		}

		if view.Terminal {
			return nil
		}

		fmt.Fprint(writer, "> ")
		text, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// Graceful exit on EOF
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}
		input := strings.TrimSpace(text)

		switch strings.ToLower(input) {
		case "":
			continue
		case "q", "quit", "exit":
			fmt.Fprintln(writer, "Bye!")
			return nil
		case "b", "back":
			next, err := engine.Back(sess)
			if err != nil {
				if errors.Is(err, domain.ErrAtRoot) {
					fmt.Fprintln(writer, "Already at the first question.")
					continue
				}
				return fmt.Errorf("navigation error: %w", err)
			}
			sess = next
			continue
		}

		idx, ok := matchOption(input, view.Node)
		if !ok {
			fmt.Fprintf(writer, "Unrecognized choice %q. Enter an option number.\n", input)
			continue
		}

		next, err := engine.Choose(sess, idx)
		if err != nil {
			if errors.Is(err, domain.ErrOptionOutOfRange) {
				fmt.Fprintf(writer, "Pick a number between 1 and %d.\n", len(view.Node.Options))
				continue
			}
			return fmt.Errorf("navigation error: %w", err)
		}
		sess = next
	}
}

func (r *Runner) printView(w io.Writer, view domain.View) {
	content := view.Node.Prompt
	if view.Terminal {
		content = view.Node.Recommendation
	}
	if r.Renderer != nil {
		if rendered, err := r.Renderer(content); err == nil {
			content = rendered
		}
	}
	fmt.Fprintln(w, strings.TrimSpace(content))

	if view.Terminal {
		return
	}
	for i, opt := range view.Node.Options {
		fmt.Fprintf(w, "  %d) %s\n", i+1, opt.Label)
	}
}

// matchOption resolves input to an option index: a displayed 1-based
// number, or a case-insensitive label.
func matchOption(input string, node domain.Node) (int, bool) {
	if n, err := strconv.Atoi(input); err == nil {
		return n - 1, true
	}
	for i, opt := range node.Options {
		if strings.EqualFold(opt.Label, input) {
			return i, true
		}
	}
	return 0, false
}
