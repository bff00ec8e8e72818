// Package view renders the server-side pages.
package view

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/almoxarifado/catalogo/internal/catalog"
	"github.com/almoxarifado/catalogo/internal/shared"
	"github.com/almoxarifado/catalogo/web"
)

// ErrUnknownTemplate is returned by Render for names not in the embedded set.
var ErrUnknownTemplate = errors.New("view: unknown template")

// Engine renders the embedded templates.
type Engine struct {
	templates *template.Template
}

// TemplateData is the envelope every page receives; page specifics go in Data.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	Data        any
}

var funcs = template.FuncMap{
	"brl":  catalog.FormatBRL,
	"unit": catalog.UnitLabel,
	"plural": func(n int, one, many string) string {
		if n == 1 {
			return one
		}
		return many
	},
	// section marks a nav link active for its page and every path below it.
	"section": func(current, prefix string) bool {
		return current == prefix || strings.HasPrefix(current, prefix+"/")
	},
}

// NewEngine parses layouts, partials and pages from the web bundle.
func NewEngine() (*Engine, error) {
	tpl, err := template.New("catalogo").Funcs(funcs).ParseFS(web.Templates(), "layouts/*.html", "partials/*.html", "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: parse templates: %w", err)
	}
	return &Engine{templates: tpl}, nil
}

// Render writes the named page with status. Output is buffered so a failing
// template leaves the response untouched for the caller's error page.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return errors.New("view: engine not initialised")
	}
	if e.templates.Lookup(name) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("view: render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
