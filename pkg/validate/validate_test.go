package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
)

func mustGraph(t *testing.T, rootID string, nodes []domain.Node) *domain.Graph {
	t.Helper()
	g, err := domain.New(rootID, nodes)
	if err != nil {
		t.Fatalf("domain.New() unexpected error: %v", err)
	}
	return g
}

func question(id, prompt string, opts ...domain.Option) domain.Node {
	return domain.Node{ID: id, Kind: domain.KindQuestion, Prompt: prompt, Options: opts}
}

func leaf(id, rec string) domain.Node {
	return domain.Node{ID: id, Kind: domain.KindLeaf, Recommendation: rec}
}

func opt(label, target string) domain.Option {
	return domain.Option{Label: label, TargetID: target}
}

func kinds(r *Report) []IssueKind {
	out := make([]IssueKind, 0, len(r.Issues))
	for _, iss := range r.Issues {
		out = append(out, iss.Kind)
	}
	return out
}

func TestGraph_Valid(t *testing.T) {
	g := mustGraph(t, "root", []domain.Node{
		question("root", "Do you like chocolate?",
			opt("Yes", "a"),
			opt("No", "b"),
		),
		leaf("a", "Chocolate Cupcake"),
		question("b", "Do you like sprinkles?",
			opt("Yes", "c"),
			opt("No", "d"),
		),
		leaf("c", "Vanilla Cupcake"),
		leaf("d", "Red Velvet Cupcake"),
	})

	r := Graph(g)
	if !r.Valid() {
		t.Fatalf("Graph() reported issues for a sound graph: %v", r.Issues)
	}
	if err := r.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestGraph_ConvergenceIsLegal(t *testing.T) {
	// Diamond: two branches rejoin at one leaf. A DAG, not a tree.
	g := mustGraph(t, "root", []domain.Node{
		question("root", "Pick a door", opt("Left", "l"), opt("Right", "r")),
		question("l", "Sure?", opt("Yes", "end")),
		question("r", "Sure?", opt("Yes", "end")),
		leaf("end", "Same place either way"),
	})

	if r := Graph(g); !r.Valid() {
		t.Fatalf("Graph() flagged a converging DAG: %v", r.Issues)
	}
}

func TestGraph_MissingRoot(t *testing.T) {
	t.Run("Undeclared", func(t *testing.T) {
		g := mustGraph(t, "", []domain.Node{leaf("a", "x")})
		r := Graph(g)
		if len(r.Issues) == 0 || r.Issues[0].Kind != MissingRoot {
			t.Fatalf("Graph() = %v, want leading missing_root", kinds(r))
		}
	})

	t.Run("Undefined", func(t *testing.T) {
		g := mustGraph(t, "ghost", []domain.Node{leaf("a", "x")})
		r := Graph(g)
		if len(r.Issues) == 0 || r.Issues[0].Kind != MissingRoot {
			t.Fatalf("Graph() = %v, want leading missing_root", kinds(r))
		}
		if r.Issues[0].NodeID != "ghost" {
			t.Errorf("Issue.NodeID = %q, want ghost", r.Issues[0].NodeID)
		}
	})

	t.Run("Reachability Skipped Without Root", func(t *testing.T) {
		// Without an anchor every node would be trivially unreachable;
		// that noise must not drown the real defect.
		g := mustGraph(t, "", []domain.Node{leaf("a", "x"), leaf("b", "y")})
		for _, iss := range Graph(g).Issues {
			if iss.Kind == UnreachableNode {
				t.Fatalf("Graph() reported unreachable_node with no root: %v", iss)
			}
		}
	})
}

func TestGraph_DanglingReference(t *testing.T) {
	g := mustGraph(t, "root", []domain.Node{
		question("root", "Pick", opt("Fine", "a"), opt("Broken", "nowhere")),
		leaf("a", "x"),
	})

	r := Graph(g)
	if r.Valid() {
		t.Fatal("Graph() missed a dangling reference")
	}

	var found *Issue
	for i := range r.Issues {
		if r.Issues[i].Kind == DanglingReference {
			found = &r.Issues[i]
			break
		}
	}
	if found == nil {
		t.Fatalf("Graph() = %v, want dangling_reference", kinds(r))
	}
	if found.NodeID != "root" || found.OptionIndex != 1 || found.TargetID != "nowhere" {
		t.Errorf("Issue = %+v, want node=root index=1 target=nowhere", found)
	}
}

func TestGraph_UnreachableNode(t *testing.T) {
	g := mustGraph(t, "root", []domain.Node{
		question("root", "Pick", opt("Go", "a")),
		leaf("a", "x"),
		leaf("island", "never seen"),
	})

	r := Graph(g)
	var got []string
	for _, iss := range r.Issues {
		if iss.Kind == UnreachableNode {
			got = append(got, iss.NodeID)
		}
	}
	if len(got) != 1 || got[0] != "island" {
		t.Errorf("unreachable nodes = %v, want [island]", got)
	}
}

func TestGraph_CycleDetected(t *testing.T) {
	t.Run("Self Loop", func(t *testing.T) {
		g := mustGraph(t, "root", []domain.Node{
			question("root", "Again?", opt("Again", "root")),
		})
		r := Graph(g)
		var found *Issue
		for i := range r.Issues {
			if r.Issues[i].Kind == CycleDetected {
				found = &r.Issues[i]
				break
			}
		}
		if found == nil {
			t.Fatalf("Graph() = %v, want cycle_detected", kinds(r))
		}
		if !strings.Contains(found.Detail, "root -> root") {
			t.Errorf("Detail = %q, want self-loop witness", found.Detail)
		}
	})

	t.Run("Two Node Loop", func(t *testing.T) {
		g := mustGraph(t, "a", []domain.Node{
			question("a", "?", opt("to b", "b")),
			question("b", "?", opt("to a", "a")),
		})
		r := Graph(g)
		var found *Issue
		for i := range r.Issues {
			if r.Issues[i].Kind == CycleDetected {
				found = &r.Issues[i]
				break
			}
		}
		if found == nil {
			t.Fatalf("Graph() = %v, want cycle_detected", kinds(r))
		}
		if !strings.Contains(found.Detail, "a -> b -> a") {
			t.Errorf("Detail = %q, want witness a -> b -> a", found.Detail)
		}
	})

	t.Run("Cycle In Unreachable Island", func(t *testing.T) {
		g := mustGraph(t, "root", []domain.Node{
			leaf("root", "done"),
			question("x", "?", opt("loop", "y")),
			question("y", "?", opt("loop", "x")),
		})
		ks := kinds(Graph(g))
		var cycles, unreachable int
		for _, k := range ks {
			switch k {
			case CycleDetected:
				cycles++
			case UnreachableNode:
				unreachable++
			}
		}
		if cycles != 1 {
			t.Errorf("cycles = %d, want 1 (islands are walked too)", cycles)
		}
		if unreachable != 2 {
			t.Errorf("unreachable = %d, want 2", unreachable)
		}
	})
}

func TestGraph_ShapeDefects(t *testing.T) {
	g := mustGraph(t, "root", []domain.Node{
		question("root", "Pick", opt("Go", "a"), opt("Stop", "b")),
		{ID: "a", Kind: domain.KindLeaf, Recommendation: "x", Options: []domain.Option{opt("should not exist", "b")}},
		question("b", "dead end"),
	})

	ks := kinds(Graph(g))
	var hasLeafOpts, hasBareQuestion bool
	for _, k := range ks {
		switch k {
		case LeafWithOptions:
			hasLeafOpts = true
		case QuestionWithoutOptions:
			hasBareQuestion = true
		}
	}
	if !hasLeafOpts {
		t.Errorf("Graph() = %v, want leaf_with_options", ks)
	}
	if !hasBareQuestion {
		t.Errorf("Graph() = %v, want question_without_options", ks)
	}
}

func TestGraph_CollectsEverything(t *testing.T) {
	// One pass must surface every defect, not stop at the first.
	g := mustGraph(t, "ghost", []domain.Node{
		question("a", "dead end"),
		{ID: "b", Kind: domain.KindLeaf, Recommendation: "x", Options: []domain.Option{opt("bad", "nowhere")}},
	})

	r := Graph(g)
	want := map[IssueKind]bool{
		MissingRoot:            true,
		QuestionWithoutOptions: true,
		LeafWithOptions:        true,
		DanglingReference:      true,
	}
	for _, iss := range r.Issues {
		delete(want, iss.Kind)
	}
	if len(want) != 0 {
		t.Errorf("Graph() missed kinds %v; got %v", want, kinds(r))
	}
}

func TestGraph_Deterministic(t *testing.T) {
	g := mustGraph(t, "ghost", []domain.Node{
		question("a", "dead end"),
		question("b", "?", opt("bad", "nowhere"), opt("worse", "elsewhere")),
		leaf("c", "x"),
	})

	first := Graph(g)
	for range 10 {
		again := Graph(g)
		if len(again.Issues) != len(first.Issues) {
			t.Fatalf("issue count varies between runs: %d vs %d", len(again.Issues), len(first.Issues))
		}
		for i := range again.Issues {
			if again.Issues[i] != first.Issues[i] {
				t.Fatalf("issue order varies between runs at %d: %+v vs %+v", i, again.Issues[i], first.Issues[i])
			}
		}
	}
}

func TestInvalidGraphError(t *testing.T) {
	g := mustGraph(t, "ghost", []domain.Node{
		question("a", "dead end"),
	})

	err := Graph(g).Err()
	if err == nil {
		t.Fatal("Err() = nil for a defective graph")
	}
	if !errors.Is(err, domain.ErrInvalidGraph) {
		t.Errorf("Err() does not unwrap to domain.ErrInvalidGraph: %v", err)
	}

	var ige *InvalidGraphError
	if !errors.As(err, &ige) {
		t.Fatalf("Err() type = %T, want *InvalidGraphError", err)
	}
	if len(ige.Report.Issues) < 2 {
		t.Errorf("Report carries %d issues, want at least 2", len(ige.Report.Issues))
	}
	if !strings.Contains(err.Error(), "validation issues") {
		t.Errorf("Error() = %q, want numbered aggregate", err.Error())
	}
}
