package domain

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// GraphDiff summarizes the changes between two revisions of a graph.
// It is designed to be serialized to JSON for clients that mirror the
// graph, and renders as a one-line summary for reload messages.
type GraphDiff struct {
	// Added and Removed list node ids present in only one revision.
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`

	// Changed lists nodes whose kind, copy or options differ between
	// revisions.
	Changed []string `json:"changed,omitempty"`

	// RootChanged is set when the entry point moved.
	RootChanged bool `json:"root_changed,omitempty"`
}

// Diff calculates the difference between two graph revisions.
// If old is nil, it returns a diff representing the entire new graph
// (initial load). If nothing changed, it returns nil.
func Diff(old, new *Graph) *GraphDiff {
	if new == nil {
		return nil
	}

	d := &GraphDiff{}

	if old == nil {
		d.Added = append(d.Added, new.IDs()...)
		sort.Strings(d.Added)
		return d
	}

	// Added or modified
	for _, id := range new.IDs() {
		newNode, _ := new.Node(id)
		oldNode, exists := old.Node(id)
		if !exists {
			d.Added = append(d.Added, id)
			continue
		}
		if !reflect.DeepEqual(oldNode, newNode) {
			d.Changed = append(d.Changed, id)
		}
	}

	// Removed
	for _, id := range old.IDs() {
		if _, exists := new.Node(id); !exists {
			d.Removed = append(d.Removed, id)
		}
	}

	// Id lookups run over insertion order; sorting keeps the rendered
	// summary stable across reloads.
	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Strings(d.Changed)

	d.RootChanged = old.RootID() != new.RootID()

	if d.IsEmpty() {
		return nil
	}
	return d
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *GraphDiff) IsEmpty() bool {
	return d == nil ||
		(len(d.Added) == 0 &&
			len(d.Removed) == 0 &&
			len(d.Changed) == 0 &&
			!d.RootChanged)
}

// String renders a compact human-readable summary, e.g.
// "2 added, 1 removed, root moved".
func (d *GraphDiff) String() string {
	if d.IsEmpty() {
		return "no changes"
	}
	var parts []string
	if n := len(d.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("%d added", n))
	}
	if n := len(d.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", n))
	}
	if n := len(d.Changed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", n))
	}
	if d.RootChanged {
		parts = append(parts, "root moved")
	}
	return strings.Join(parts, ", ")
}
