package espalier_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/loam/pkg/core"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/testutils"
	loamadapter "github.com/aretw0/espalier/pkg/adapters/loam"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/domain"
)

// TestFacade_Integration drives the whole public surface over a graph
// authored as a Loam repository: Open, Start, View, Choose, Back and
// Reset.
func TestFacade_Integration(t *testing.T) {
	// 1. Setup Temp Repo
	_, repo := testutils.SetupTestRepo(t)
	ctx := context.Background()

	rootContent := `---
root: true
options:
  - label: Espresso
    to: espresso
  - label: Filter
    to: filter
---
How do you take your coffee?
`
	if err := repo.Save(ctx, core.Document{ID: "brew.md", Content: rootContent}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, core.Document{ID: "espresso.md", Content: "---\nkind: leaf\n---\nA lever machine and a good grinder."}); err != nil {
		t.Fatal(err)
	}
	// No explicit kind: a document without options is inferred as a leaf.
	if err := repo.Save(ctx, core.Document{ID: "filter.md", Content: "---\nid: filter\n---\nA V60 and a gooseneck kettle."}); err != nil {
		t.Fatal(err)
	}

	// 2. Open the engine over the repository
	engine, err := espalier.Open(ctx, loamadapter.NewFromRepository(repo))
	if err != nil {
		t.Fatalf("Failed to open engine: %v", err)
	}

	// 3. Start: fresh session at the flagged root
	sess := engine.Start()
	if sess.CurrentID != "brew" {
		t.Errorf("Expected session at 'brew', got %q", sess.CurrentID)
	}

	view, err := engine.View(sess)
	if err != nil {
		t.Fatalf("Failed to render root: %v", err)
	}
	if view.Terminal {
		t.Error("Expected root view to be non-terminal")
	}
	if view.CanGoBack {
		t.Error("Expected CanGoBack to be false at the root")
	}
	if view.Node.Prompt != "How do you take your coffee?" {
		t.Errorf("Unexpected prompt: %q", view.Node.Prompt)
	}
	if len(view.Node.Options) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(view.Node.Options))
	}

	// 4. Choose "Filter" (index 1) -> leaf
	next, err := engine.Choose(sess, 1)
	if err != nil {
		t.Fatalf("Choose failed: %v", err)
	}
	if next.CurrentID != "filter" {
		t.Errorf("Expected 'filter', got %q", next.CurrentID)
	}
	// The argument session stays usable as an undo point.
	if sess.CurrentID != "brew" {
		t.Errorf("Choose mutated its argument: now at %q", sess.CurrentID)
	}

	leafView, err := engine.View(next)
	if err != nil {
		t.Fatalf("Failed to render leaf: %v", err)
	}
	if !leafView.Terminal {
		t.Error("Expected leaf view to be terminal")
	}
	if !leafView.CanGoBack {
		t.Error("Expected CanGoBack to be true after a choice")
	}
	if leafView.Node.Recommendation != "A V60 and a gooseneck kettle." {
		t.Errorf("Unexpected recommendation: %q", leafView.Node.Recommendation)
	}

	// 5. Choosing on a leaf is rejected
	if _, err := engine.Choose(next, 0); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition on a leaf, got %v", err)
	}

	// 6. Back rewinds to the question
	back, err := engine.Back(next)
	if err != nil {
		t.Fatalf("Back failed: %v", err)
	}
	if back.CurrentID != "brew" {
		t.Errorf("Expected 'brew' after back, got %q", back.CurrentID)
	}
	if _, err := engine.Back(back); !errors.Is(err, domain.ErrAtRoot) {
		t.Errorf("Expected ErrAtRoot at the root, got %v", err)
	}

	// 7. Reset lands on a fresh session at the root
	fresh := engine.Reset(next)
	if fresh.CurrentID != "brew" || !fresh.AtRoot() {
		t.Errorf("Expected reset session at the root, got %+v", fresh)
	}
}

func TestOpen_RejectsBrokenGraph(t *testing.T) {
	source, err := memory.NewSourceFromNodes("root",
		domain.Node{
			ID:     "root",
			Kind:   domain.KindQuestion,
			Prompt: "Pick one",
			Options: []domain.Option{
				{Label: "Gone", TargetID: "missing"},
			},
		},
	)
	if err != nil {
		t.Fatalf("Failed to build source: %v", err)
	}

	_, err = espalier.Open(context.Background(), source)
	if err == nil {
		t.Fatal("Expected Open to fail on a dangling reference")
	}
	if !errors.Is(err, domain.ErrInvalidGraph) {
		t.Errorf("Expected ErrInvalidGraph, got %v", err)
	}
}

func TestEngine_LifecycleHooks(t *testing.T) {
	g := twoStepGraph(t)

	var entered []string
	var labels []string
	stepBacks := 0

	engine, err := espalier.New(g, espalier.WithLifecycleHooks(domain.LifecycleHooks{
		OnNodeEnter: func(e *domain.NodeEvent) { entered = append(entered, e.NodeID) },
		OnChoice:    func(e *domain.ChoiceEvent) { labels = append(labels, e.Label) },
		OnStepBack:  func(e *domain.NodeEvent) { stepBacks++ },
	}))
	if err != nil {
		t.Fatalf("Failed to init engine: %v", err)
	}

	sess := engine.Start()
	sess, err = engine.Choose(sess, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Back(sess); err != nil {
		t.Fatal(err)
	}

	if len(entered) != 1 || entered[0] != "done" {
		t.Errorf("Expected node_enter for 'done', got %v", entered)
	}
	if len(labels) != 1 || labels[0] != "Go" {
		t.Errorf("Expected choice label 'Go', got %v", labels)
	}
	if stepBacks != 1 {
		t.Errorf("Expected 1 step_back event, got %d", stepBacks)
	}
}

func TestEngine_WatchRequiresWatchableSource(t *testing.T) {
	// Constructed directly over a graph: no source at all.
	engine, err := espalier.New(twoStepGraph(t))
	if err != nil {
		t.Fatalf("Failed to init engine: %v", err)
	}
	if _, err := engine.Watch(context.Background()); err == nil {
		t.Error("Expected Watch to fail without a source")
	}

	// Opened from an in-memory source: attached but not watchable.
	source := memory.NewSource(twoStepGraph(t))
	engine, err = espalier.Open(context.Background(), source)
	if err != nil {
		t.Fatalf("Failed to open engine: %v", err)
	}
	if engine.Source() == nil {
		t.Error("Expected Source to be attached after Open")
	}
	if _, err := engine.Watch(context.Background()); err == nil {
		t.Error("Expected Watch to fail on a non-watchable source")
	}
}

// stubWatchSource implements ports.GraphSource and ports.Watchable.
type stubWatchSource struct {
	graph *domain.Graph
	ch    chan struct{}
}

func (s *stubWatchSource) Load(ctx context.Context) (*domain.Graph, error) {
	return s.graph, nil
}

func (s *stubWatchSource) Watch(ctx context.Context) (<-chan struct{}, error) {
	return s.ch, nil
}

func TestEngine_WatchSignalsOnChange(t *testing.T) {
	source := &stubWatchSource{
		graph: twoStepGraph(t),
		ch:    make(chan struct{}),
	}
	go func() {
		source.ch <- struct{}{}
	}()

	engine, err := espalier.Open(context.Background(), source)
	if err != nil {
		t.Fatalf("Failed to open engine: %v", err)
	}

	changes, err := engine.Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	select {
	case <-changes:
		// signal observed
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for watch event")
	}
}

// twoStepGraph is the smallest valid walk: one question, one leaf.
func twoStepGraph(t *testing.T) *domain.Graph {
	t.Helper()
	g, err := domain.New("root", []domain.Node{
		{
			ID:     "root",
			Kind:   domain.KindQuestion,
			Prompt: "Ready?",
			Options: []domain.Option{
				{Label: "Go", TargetID: "done"},
			},
		},
		{
			ID:             "done",
			Kind:           domain.KindLeaf,
			Recommendation: "All set.",
		},
	})
	if err != nil {
		t.Fatalf("Failed to build graph: %v", err)
	}
	return g
}
