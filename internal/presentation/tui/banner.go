package tui

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// PrintBanner outputs the ASCII art banner for Espalier. Piped output
// skips it so scripted runs see only the walk itself.
func PrintBanner() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}

	p := termenv.ColorProfile()
	// Gradient from leaf-green to sky-blue, fitting for a trained tree
	s1 := termenv.String("                          _  _").Foreground(p.Color("#4ade80"))
	s2 := termenv.String("  ___  ___  _ __    __ _ | |(_)  ___  _ __").Foreground(p.Color("#34d399"))
	s3 := termenv.String(" / _ \\/ __|| '_ \\  / _` || || | / _ \\| '__|").Foreground(p.Color("#2dd4bf"))
	s4 := termenv.String("|  __/\\__ \\| |_) || (_| || || ||  __/| |").Foreground(p.Color("#22d3ee"))
	s5 := termenv.String(" \\___||___/| .__/  \\__,_||_||_| \\___||_|").Foreground(p.Color("#38bdf8"))
	s6 := termenv.String("           |_|").Foreground(p.Color("#60a5fa"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println()
}
