// Package web embeds the dashboard's HTML templates.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every embedded template. Names are the file names.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
