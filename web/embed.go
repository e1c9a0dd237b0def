// Package web holds the page templates and static assets compiled into the
// server binary.
package web

import "embed"

// EmbeddedFS contains templates/ and static/.
//
//go:embed templates static
var EmbeddedFS embed.FS
