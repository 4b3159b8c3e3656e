package espalier_test

import (
	"log"
	"os"
	"strings"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/dsl"
)

// ExampleRunner_Run demonstrates how to use Espalier purely as a Go
// library: build the graph in code with the dsl package and drive it
// over plain reader/writer IO, without touching the file system.
func ExampleRunner_Run() {
	// 1. Define your graph with the fluent builder. The first declared
	// node becomes the root.
	g, err := dsl.New().
		Ask("root", "What matters more?").
		Option("Raw speed", "speed").
		Option("Low cost", "cost").
		Recommend("speed", "Benchmark first, then buy the bigger box.").
		Recommend("cost", "Profile first, then delete code.").
		Build()
	if err != nil {
		log.Fatal(err)
	}

	// 2. Initialize the Engine over the graph.
	engine, err := espalier.New(g)
	if err != nil {
		log.Fatal(err)
	}

	// 3. Run the loop. Input would normally be os.Stdin; a reader keeps
	// the example deterministic.
	runner := espalier.NewRunner()
	runner.Input = strings.NewReader("1\n")
	runner.Output = os.Stdout

	if err := runner.Run(engine); err != nil {
		log.Fatal(err)
	}

	// Output:
	// What matters more?
	//   1) Raw speed
	//   2) Low cost
	// > Benchmark first, then buy the bigger box.
}
