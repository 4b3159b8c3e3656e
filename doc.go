/*
Package espalier is a deterministic decision-graph engine for building
branching questionnaires, troubleshooting guides, and recommendation
flows.

It separates the authored graph (questions, options, recommendations)
from the walk state (sessions), so the same graph serves any number of
concurrent users and any renderer.

# Concept

Espalier treats a questionnaire as a directed graph of nodes. Question
nodes present a prompt and labeled options; leaf nodes carry a
recommendation and end the walk. The engine validates the whole graph
once up front, then answers every traversal operation (choose, back,
reset) purely from the graph and the session snapshot it is handed.
This Hexagonal Architecture allows Espalier to be embedded in any
interface: CLI, HTTP server, or AI agent infrastructure.

# Key Features

  - Deterministic traversal: the same session and choice always produce
    the same result.
  - Immutable sessions: operations return new snapshots, so undo is
    just holding onto an older one.
  - Whole-graph validation: dangling references, unreachable nodes, and
    cycles are rejected before any session exists.
  - Hexagonal Architecture: core logic is decoupled from adapters
    (sources, stores, transports).

# Usage

Build a graph (from a YAML/JSON document, a Loam directory, or code),
open an engine over it, and walk:

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/espalier"
		"github.com/aretw0/espalier/pkg/codec"
	)

	func main() {
		graph, err := codec.LoadFile("cupcake.yaml")
		if err != nil {
			log.Fatal(err)
		}

		eng, err := espalier.New(graph)
		if err != nil {
			log.Fatal(err) // structurally broken graphs are rejected here
		}

		session := eng.Start()
		for {
			view, err := eng.View(session)
			if err != nil {
				log.Fatal(err)
			}
			if view.Terminal {
				fmt.Println("Recommendation:", view.Node.Recommendation)
				return
			}
			fmt.Println(view.Node.Prompt)
			for i, opt := range view.Node.Options {
				fmt.Printf("  %d. %s\n", i+1, opt.Label)
			}

			// In a real app this choice comes from the user.
			session, err = eng.Choose(session, 0)
			if err != nil {
				log.Fatal(err)
			}
		}
	}
*/
package espalier
