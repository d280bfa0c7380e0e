// Package web carries the embedded HTML templates, so the binary and the
// tests render pages without caring about the working directory.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS
