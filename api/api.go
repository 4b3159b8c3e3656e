// Package api carries the OpenAPI description of the HTTP surface.
// The document is written first and the handlers follow it; a test in
// the http adapter keeps the two from drifting apart.
package api

import _ "embed"

// OpenAPI is the raw openapi.yaml document.
//
//go:embed openapi.yaml
var OpenAPI []byte
