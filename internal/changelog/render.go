package changelog

import (
	"fmt"
	"io"

	"github.com/cbroglie/mustache"
)

// Renderer turns a Document into text using a template.
// Implementations must not retain or modify the document.
type Renderer interface {
	Render(template string, doc *Document) (string, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(template string, doc *Document) (string, error)

// Render calls f(template, doc).
func (f RendererFunc) Render(template string, doc *Document) (string, error) {
	return f(template, doc)
}

// MustacheRenderer renders mustache templates against Document.Values.
type MustacheRenderer struct{}

// Render parses template and renders it with the document's values.
// The function is idempotent - given the same input, it produces identical output.
func (MustacheRenderer) Render(template string, doc *Document) (string, error) {
	tmpl, err := mustache.ParseString(template)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	out, err := tmpl.Render(doc.Values())
	if err != nil {
		return "", fmt.Errorf("rendering template: %w", err)
	}
	return out, nil
}

// RenderTo renders doc with r and writes the result to w.
func RenderTo(w io.Writer, r Renderer, template string, doc *Document) error {
	out, err := r.Render(template, doc)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("writing rendered changelog: %w", err)
	}
	return nil
}
