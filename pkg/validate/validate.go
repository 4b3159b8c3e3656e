// Package validate performs structural validation of decision graphs.
//
// Validation is a whole-graph pass run once before any traversal: shape
// checks on every node, dangling reference detection on every edge,
// reachability from the root, and cycle detection. Every defect found is
// collected into a single Report rather than failing fast, so authors
// fix a graph in one round trip.
package validate

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// Graph runs all structural checks and returns the collected report.
// A report with no issues means every walk terminates at a leaf in at
// most Len() steps and back/reset are always safe.
func Graph(g *domain.Graph) *Report {
	r := &Report{}

	rootOK := checkRoot(r, g)
	checkShape(r, g)
	checkDangling(r, g)
	if rootOK {
		checkReachability(r, g)
	}
	checkCycles(r, g)

	return r
}

func checkRoot(r *Report, g *domain.Graph) bool {
	rootID := g.RootID()
	if rootID == "" {
		r.add(MissingRoot, "", -1, "", "graph declares no root")
		return false
	}
	if _, ok := g.Node(rootID); !ok {
		r.add(MissingRoot, rootID, -1, "", fmt.Sprintf("root %q is not defined in the graph", rootID))
		return false
	}
	return true
}

func checkShape(r *Report, g *domain.Graph) {
	for _, n := range g.Nodes() {
		switch n.Kind {
		case domain.KindLeaf:
			if len(n.Options) > 0 {
				r.add(LeafWithOptions, n.ID, -1, "",
					fmt.Sprintf("leaf node %q declares %d option(s)", n.ID, len(n.Options)))
			}
		case domain.KindQuestion:
			if len(n.Options) == 0 {
				r.add(QuestionWithoutOptions, n.ID, -1, "",
					fmt.Sprintf("question node %q has no options", n.ID))
			}
		}
	}
}

func checkDangling(r *Report, g *domain.Graph) {
	for _, n := range g.Nodes() {
		for i, opt := range n.Options {
			if _, ok := g.Node(opt.TargetID); !ok {
				r.add(DanglingReference, n.ID, i, opt.TargetID,
					fmt.Sprintf("node %q option %d (%q) targets unknown node %q", n.ID, i, opt.Label, opt.TargetID))
			}
		}
	}
}

// checkReachability crawls the graph breadth-first from the root and
// reports every node the crawl never touches. Dangling targets are
// skipped here; checkDangling already covers them.
func checkReachability(r *Report, g *domain.Graph) {
	visited := map[string]bool{g.RootID(): true}
	queue := []string{g.RootID()}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		n, ok := g.Node(currentID)
		if !ok {
			continue
		}
		for _, opt := range n.Options {
			target := opt.TargetID
			if _, exists := g.Node(target); !exists {
				continue
			}
			if !visited[target] {
				visited[target] = true
				queue = append(queue, target)
			}
		}
	}

	for _, id := range g.IDs() {
		if !visited[id] {
			r.add(UnreachableNode, id, -1, "",
				fmt.Sprintf("node %q cannot be reached from root %q", id, g.RootID()))
		}
	}
}

// checkCycles colors nodes white/gray/black in a depth-first walk. An
// edge into a gray node closes a cycle; the gray stack at that moment is
// the witness path. The walk is seeded from every node in insertion
// order, so cycles inside unreachable islands are found too.
func checkCycles(r *Report, g *domain.Graph) {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.Len())
	var stack []string

	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		stack = append(stack, id)

		n, _ := g.Node(id)
		for i, opt := range n.Options {
			target := opt.TargetID
			if _, exists := g.Node(target); !exists {
				continue
			}
			switch color[target] {
			case white:
				visit(target)
			case gray:
				start := 0
				for j, sid := range stack {
					if sid == target {
						start = j
						break
					}
				}
				witness := make([]string, 0, len(stack)-start+1)
				witness = append(witness, stack[start:]...)
				witness = append(witness, target)
				r.add(CycleDetected, id, i, target,
					fmt.Sprintf("cycle: %s", strings.Join(witness, " -> ")))
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, id := range g.IDs() {
		if color[id] == white {
			visit(id)
		}
	}
}
