package espalier

import _ "embed"

// Version is the library version, embedded from the VERSION file at the
// repository root. It carries a trailing newline; display code should
// trim it.
//
//go:embed VERSION
var Version string
