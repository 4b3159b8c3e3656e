package validate

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// IssueKind classifies a structural defect.
type IssueKind string

const (
	// MissingRoot means the graph declares no root, or declares one that
	// does not exist among its nodes.
	MissingRoot IssueKind = "missing_root"
	// DanglingReference means an option targets a node id that does not exist.
	DanglingReference IssueKind = "dangling_reference"
	// UnreachableNode means no directed path from the root reaches the node.
	UnreachableNode IssueKind = "unreachable_node"
	// CycleDetected means following options can revisit a node.
	CycleDetected IssueKind = "cycle_detected"
	// LeafWithOptions means a terminal node declares outgoing options.
	LeafWithOptions IssueKind = "leaf_with_options"
	// QuestionWithoutOptions means a question node has nowhere to go.
	QuestionWithoutOptions IssueKind = "question_without_options"
)

// Issue represents a single structural defect.
type Issue struct {
	Kind IssueKind `json:"kind"`

	// NodeID is the offending node, when one can be named.
	NodeID string `json:"node_id,omitempty"`

	// OptionIndex is the offending option within NodeID, or -1 when the
	// defect is not tied to a particular option.
	OptionIndex int `json:"option_index"`

	// TargetID is the referenced node for edge-level defects.
	TargetID string `json:"target_id,omitempty"`

	// Detail is a human-readable description, e.g. the witness path of a cycle.
	Detail string `json:"detail"`
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s", i.Kind, i.Detail)
}

// Report is the outcome of validating a graph. All checks run to
// completion, so a single pass surfaces every defect at once.
type Report struct {
	Issues []Issue `json:"issues"`
}

// Valid reports whether no defects were found.
func (r *Report) Valid() bool {
	return len(r.Issues) == 0
}

// Err returns nil for a valid report, or an InvalidGraphError carrying
// the full report otherwise.
func (r *Report) Err() error {
	if r.Valid() {
		return nil
	}
	return &InvalidGraphError{Report: r}
}

func (r *Report) add(kind IssueKind, nodeID string, optionIndex int, targetID, detail string) {
	r.Issues = append(r.Issues, Issue{
		Kind:        kind,
		NodeID:      nodeID,
		OptionIndex: optionIndex,
		TargetID:    targetID,
		Detail:      detail,
	})
}

// InvalidGraphError wraps a defect report as an error. It unwraps to
// domain.ErrInvalidGraph so callers can branch with errors.Is without
// importing this package.
type InvalidGraphError struct {
	Report *Report
}

func (e *InvalidGraphError) Error() string {
	issues := e.Report.Issues
	if len(issues) == 1 {
		return issues[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation issues:\n", len(issues))
	for i, iss := range issues {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, iss.Error())
	}
	return b.String()
}

func (e *InvalidGraphError) Unwrap() error {
	return domain.ErrInvalidGraph
}
