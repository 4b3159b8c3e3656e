/*
Package walk implements the interactive execution loop for driving a
decision graph from a terminal or a structured pipe.

It acts as the bridge between the traversal engine and the outside world.
The walker renders each question, reads a choice through a pluggable
handler, and persists the session after every accepted step so a walk
can be stopped and resumed.

# Key Components

  - Walker: The main orchestrator running the render/read/advance loop.
  - IOHandler: Decouples how choices are read (interactive text, JSON lines).
  - TextHandler: A standard implementation for interactive CLI usage.
  - JSONHandler: A line-delimited JSON implementation for automation.

# Usage

	w := walk.NewWalker(
		walk.WithStore(store),
		walk.WithSessionID("user-1"),
	)

	final, err := w.Run(ctx, engine, nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("finished at", final.CurrentID)
*/
package walk
