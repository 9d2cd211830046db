package api

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// Pages renders the informational HTML pages and serves static assets.
type Pages struct {
	templates *template.Template
	assets    fs.FS
}

type pageData struct {
	Title     string
	Active    string
	MaxLength int
	Status    int
	Message   string
}

// NewPages parses templates/*.html from fsys. Assets are served from the
// static/ directory of the same filesystem.
func NewPages(fsys fs.FS) (*Pages, error) {
	tmpl, err := template.ParseFS(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Pages{templates: tmpl, assets: fsys}, nil
}

// Render executes the named template into a buffer and only then writes the
// response, so a failing template never produces a partial page.
func (p *Pages) Render(w http.ResponseWriter, status int, name string, data pageData) error {
	var buf bytes.Buffer
	if err := p.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// Static returns a handler serving files below static/.
func (p *Pages) Static() http.Handler {
	return http.FileServer(http.FS(p.assets))
}
