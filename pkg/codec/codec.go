// Package codec reads and writes the single-document graph format.
//
// A document is a mapping with a rootId and a list of nodes:
//
//	rootId: start
//	nodes:
//	  - id: start
//	    kind: question
//	    prompt: "Do you like chocolate?"
//	    options:
//	      - label: "Yes"
//	        targetId: chocolate
//	  - id: chocolate
//	    kind: leaf
//	    recommendation: "Chocolate Cupcake"
//
// Documents are decoded as YAML with strict field checking; since JSON
// is a YAML subset, the same entry point accepts both encodings. Dump
// emits YAML and DumpJSON emits JSON, and either output loads back into
// a structurally equal graph.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/espalier/pkg/domain"
)

// document is the wire shape of a serialized graph.
type document struct {
	RootID string        `yaml:"rootId" json:"rootId"`
	Nodes  []domain.Node `yaml:"nodes" json:"nodes"`
}

// Load decodes a YAML or JSON document into a graph. Any malformed
// markup or shape violation (missing id, unknown kind, duplicate id)
// is reported as a *ParseError; Load never inspects edges or
// reachability.
func Load(data []byte) (*domain.Graph, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Detail: "malformed document", Err: err}
	}

	seen := make(map[string]bool, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n.ID == "" {
			return nil, &ParseError{Detail: fmt.Sprintf("node at index %d is missing an id", i)}
		}
		if seen[n.ID] {
			return nil, &ParseError{Detail: fmt.Sprintf("duplicate node id %q", n.ID)}
		}
		seen[n.ID] = true
		if !n.Kind.Valid() {
			return nil, &ParseError{Detail: fmt.Sprintf("node %q has unknown kind %q", n.ID, n.Kind)}
		}
	}

	g, err := domain.New(doc.RootID, doc.Nodes)
	if err != nil {
		return nil, &ParseError{Detail: "document rejected by graph construction", Err: err}
	}
	return g, nil
}

// LoadFile reads and decodes the document at path.
func LoadFile(path string) (*domain.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph document: %w", err)
	}
	return Load(data)
}

// Dump encodes the graph as a YAML document.
func Dump(g *domain.Graph) ([]byte, error) {
	out, err := yaml.Marshal(document{RootID: g.RootID(), Nodes: g.Nodes()})
	if err != nil {
		return nil, fmt.Errorf("encode graph document: %w", err)
	}
	return out, nil
}

// DumpJSON encodes the graph as a JSON document.
func DumpJSON(g *domain.Graph) ([]byte, error) {
	out, err := json.MarshalIndent(document{RootID: g.RootID(), Nodes: g.Nodes()}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode graph document: %w", err)
	}
	return out, nil
}
