// Package graph renders decision graphs as Mermaid diagrams.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// Overlay contains walk state to visualize on top of the structure.
type Overlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// Mermaid produces Mermaid flowchart syntax for the graph.
// It applies semantic styling:
//   - Root: ((Circle))
//   - Question: [/Parallelogram/]
//   - Leaf: (Rounded)
//
// Edges carry their option labels. An overlay, when provided, highlights
// a session's visited path and current node.
func Mermaid(g *domain.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range g.Nodes() {
		// Sanitize ID for Mermaid
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "(", ")"
		switch {
		case node.ID == g.RootID():
			opener, closer = "((", "))" // Circle
		case node.Kind == domain.KindQuestion:
			opener, closer = "[/", "/]" // Parallelogram (Input)
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, node.ID, closer))

		for _, opt := range node.Options {
			safeTo := sanitizeMermaidID(opt.TargetID)

			arrow := "-->"
			if opt.Label != "" {
				// Escape double quotes in the label for Mermaid
				safeLabel := strings.ReplaceAll(opt.Label, "\"", "'")
				arrow = fmt.Sprintf("-- \"%s\" -->", safeLabel)
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeTo))
		}
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		// Deduplicate visited nodes (using safeIDs)
		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentNode != "" {
			safeCurrent := sanitizeMermaidID(overlay.CurrentNode)
			sb.WriteString(fmt.Sprintf("    class %s current;\n", safeCurrent))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
