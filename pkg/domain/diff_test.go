package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func diffGraph(t *testing.T, rootID string, nodes []Node) *Graph {
	t.Helper()
	g, err := New(rootID, nodes)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return g
}

func TestDiff(t *testing.T) {
	baseNodes := []Node{
		{ID: "root", Kind: KindQuestion, Prompt: "Pick one", Options: []Option{
			{Label: "left", TargetID: "a"},
			{Label: "right", TargetID: "b"},
		}},
		{ID: "a", Kind: KindLeaf, Recommendation: "Take A"},
		{ID: "b", Kind: KindLeaf, Recommendation: "Take B"},
	}

	base := diffGraph(t, "root", baseNodes)
	same := diffGraph(t, "root", baseNodes)

	edited := diffGraph(t, "root", []Node{
		baseNodes[0],
		{ID: "a", Kind: KindLeaf, Recommendation: "Take A, but sleep on it"},
		baseNodes[2],
	})

	reshaped := diffGraph(t, "root", []Node{
		{ID: "root", Kind: KindQuestion, Prompt: "Pick one", Options: []Option{
			{Label: "left", TargetID: "a"},
			{Label: "right", TargetID: "c"},
		}},
		baseNodes[1],
		{ID: "c", Kind: KindLeaf, Recommendation: "Take C"},
	})

	rerooted := diffGraph(t, "a", baseNodes)

	tests := []struct {
		name string
		old  *Graph
		new  *Graph
		want *GraphDiff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new:  base,
			want: &GraphDiff{Added: []string{"a", "b", "root"}},
		},
		{
			name: "No Changes",
			old:  base,
			new:  same,
			want: nil,
		},
		{
			name: "Copy Edit",
			old:  base,
			new:  edited,
			want: &GraphDiff{Changed: []string{"a"}},
		},
		{
			name: "Node Added & Removed",
			old:  base,
			new:  reshaped,
			want: &GraphDiff{Added: []string{"c"}, Removed: []string{"b"}, Changed: []string{"root"}},
		},
		{
			name: "Root Moved",
			old:  base,
			new:  rerooted,
			want: &GraphDiff{RootChanged: true},
		},
		{
			name: "New is Nil",
			old:  base,
			new:  nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.want == nil {
				if got != nil {
					t.Errorf("Diff() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Diff() = nil, want %+v", tt.want)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Diff() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDiffString(t *testing.T) {
	var empty *GraphDiff
	if !empty.IsEmpty() {
		t.Error("nil diff should be empty")
	}
	if got := empty.String(); got != "no changes" {
		t.Errorf("String() = %q, want %q", got, "no changes")
	}

	d := &GraphDiff{
		Added:       []string{"x", "y"},
		Removed:     []string{"z"},
		RootChanged: true,
	}
	want := "2 added, 1 removed, root moved"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	t.Run("Empty Sections Omitted", func(t *testing.T) {
		d := &GraphDiff{Changed: []string{"root"}}
		bytes, err := json.Marshal(d)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(string(bytes), `"added"`) {
			t.Errorf("JSON should not contain 'added' when empty, got: %s", string(bytes))
		}
		if !strings.Contains(string(bytes), `"changed":["root"]`) {
			t.Errorf("JSON should contain the changed list, got: %s", string(bytes))
		}
	})
}
