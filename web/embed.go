// Package web embeds the page template and the static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"os"
)

//go:embed templates/*.html static
var files embed.FS

// Templates parses the page templates.
func Templates() (*template.Template, error) {
	return template.ParseFS(files, "templates/*.html")
}

// Static returns the asset tree. A non-empty dir serves from disk instead
// of the embedded copy.
func Static(dir string) (fs.FS, error) {
	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
		return os.DirFS(dir), nil
	}
	return fs.Sub(files, "static")
}
