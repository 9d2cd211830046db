// Package web embeds the HTML templates and static assets served by the
// application.
package web

import "embed"

// FS holds templates/*.html and static/*.
//
//go:embed templates static
var FS embed.FS
