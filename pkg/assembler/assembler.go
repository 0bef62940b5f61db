// Package assembler wraps sanitized body HTML and cleaned CSS into a
// standalone HTML page.
package assembler

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

// DefaultTitle is used when a page has no title.
const DefaultTitle = "Mark Text"

//go:embed page.tmpl
var pageTemplate string

var page = template.Must(template.New("page").Funcs(sprig.TxtFuncMap()).Parse(pageTemplate))

// Page is the input to Assemble.
type Page struct {
	// Title is HTML-escaped. Empty means DefaultTitle.
	Title string
	// Theme is appended to the body classes.
	Theme string
	// Style is the cleaned CSS, emitted ahead of the built-in rules.
	Style string
	// Body is the sanitized body HTML, emitted verbatim.
	Body string
}

// DefaultTitle lets the template fall back when Title is empty.
func (Page) DefaultTitle() string {
	return DefaultTitle
}

// Assemble renders p as a complete HTML document.
func Assemble(p Page) (string, error) {
	buf := new(bytes.Buffer)
	if err := page.Execute(buf, p); err != nil {
		return "", fmt.Errorf("unable to render page: %w", err)
	}
	return buf.String(), nil
}
