/*
Package dsl provides a fluent builder for constructing decision graphs in Go.

It lets developers define branching flows with a type-safe builder pattern
instead of external YAML or JSON files. This is particularly useful for
dynamic graph generation, unit tests, and leveraging IDE autocompletion.

Example usage:

	package main

	import (
		"github.com/aretw0/espalier/pkg/dsl"
	)

	func main() {
		graph, err := dsl.New().
			Ask("flavor", "What base flavor?").
			Option("Chocolate", "frosting").
			Option("Vanilla", "vanilla").
			Ask("frosting", "Which frosting?").
			Option("Ganache", "ganache").
			Recommend("vanilla", "Classic vanilla bean.").
			Recommend("ganache", "Dark chocolate ganache.").
			Build()
		if err != nil {
			// ...
		}
		// ... pass graph to espalier.New(...)
		_ = graph
	}

Build reports construction errors only (an empty or duplicate node id);
structural checks such as dangling options run when the graph is handed
to the engine.
*/
package dsl
