package handlers

import (
	_ "embed"
	"html/template"
)

//go:embed templates/index.tmpl
var indexTemplate string

// Templates parses the console page templates.
func Templates() *template.Template {
	return template.Must(template.New(IndexTemplate).Parse(indexTemplate))
}
