package walk

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
)

func questionView() domain.View {
	return domain.View{
		Node: domain.Node{
			ID:     "flavor",
			Kind:   domain.KindQuestion,
			Prompt: "What base flavor do you want?",
			Options: []domain.Option{
				{Label: "Chocolate", TargetID: "frosting"},
				{Label: "Vanilla", TargetID: "vanilla"},
			},
		},
		CanGoBack: false,
	}
}

func leafView() domain.View {
	return domain.View{
		Node: domain.Node{
			ID:             "vanilla",
			Kind:           domain.KindLeaf,
			Recommendation: "Vanilla bean.",
		},
		Terminal: true,
	}
}

func TestTextHandler_Output_Question(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader(""), out)

	needsInput, err := h.Output(context.Background(), questionView())
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if !needsInput {
		t.Error("Question view must request input")
	}

	got := out.String()
	if !strings.Contains(got, "What base flavor do you want?") {
		t.Error("Expected prompt in output")
	}
	if !strings.Contains(got, "  1) Chocolate") || !strings.Contains(got, "  2) Vanilla") {
		t.Errorf("Expected 1-based numbered options, got:\n%s", got)
	}
}

func TestTextHandler_Output_Leaf(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader(""), out)

	needsInput, err := h.Output(context.Background(), leafView())
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if needsInput {
		t.Error("Leaf view must not request input")
	}
	if !strings.Contains(out.String(), "Vanilla bean.") {
		t.Error("Expected recommendation in output")
	}
}

func TestTextHandler_Output_RendererApplied(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader(""), out, WithTextHandlerRenderer(func(s string) (string, error) {
		return strings.ToUpper(s), nil
	}))

	if _, err := h.Output(context.Background(), leafView()); err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if !strings.Contains(out.String(), "VANILLA BEAN.") {
		t.Errorf("Expected rendered content, got %q", out.String())
	}
}

func TestTextHandler_Input_StripsControlChars(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader("\x1b[31m1\x1b[0m\n"), out)

	got, err := h.Input(context.Background())
	if err != nil {
		t.Fatalf("Input failed: %v", err)
	}
	if got != "[31m1[0m" {
		t.Errorf("Expected escape bytes stripped, got %q", got)
	}
}

func TestTextHandler_Input_RetriesOversized(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "4")

	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader("toolong\nok\n"), out)

	got, err := h.Input(context.Background())
	if err != nil {
		t.Fatalf("Input failed: %v", err)
	}
	if got != "ok" {
		t.Errorf("Expected retry to return next line, got %q", got)
	}
	if !strings.Contains(out.String(), "Please try again") {
		t.Error("Expected retry feedback in output")
	}
}

func TestTextHandler_Input_ContextCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	h := NewTextHandler(pr, &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := h.Input(ctx)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Input did not honor cancellation")
	}
}
