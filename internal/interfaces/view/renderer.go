package view

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/a-h/templ"
)

// ErrTemplateNotFound is returned when the requested template is not in the set.
var ErrTemplateNotFound = errors.New("template not found")

const templatePattern = "*.html"

// Context holds the values substituted into a template. Built per request.
type Context map[string]any

// Renderer executes html/template files from fsys. Output is contextually
// escaped by html/template.
type Renderer struct {
	fsys   fs.FS
	reload bool

	templates *template.Template
	loadErr   error
}

// NewRenderer parses all *.html files in fsys. A failed parse is not fatal:
// the error is kept and returned by every render until templates load.
// With reload set, templates are parsed again on every render.
func NewRenderer(fsys fs.FS, reload bool) *Renderer {
	r := &Renderer{fsys: fsys, reload: reload}
	r.templates, r.loadErr = parse(fsys)
	return r
}

func parse(fsys fs.FS) (*template.Template, error) {
	matches, err := fs.Glob(fsys, templatePattern)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	tmpl, err := template.ParseFS(fsys, matches...)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// Check reports whether name can be rendered with the currently loaded set.
func (r *Renderer) Check(name string) error {
	_, err := lookup(r.templates, r.loadErr, name)
	return err
}

// Page returns a component that renders the named template with data.
func (r *Renderer) Page(name string, data Context) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		set, loadErr := r.templates, r.loadErr
		if r.reload {
			set, loadErr = parse(r.fsys)
		}

		tmpl, err := lookup(set, loadErr, name)
		if err != nil {
			return err
		}
		if err := tmpl.Execute(w, data); err != nil {
			return fmt.Errorf("execute template %q: %w", name, err)
		}
		return nil
	})
}

func lookup(set *template.Template, loadErr error, name string) (*template.Template, error) {
	if loadErr != nil {
		return nil, loadErr
	}
	if set == nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	tmpl := set.Lookup(name)
	if tmpl == nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return tmpl, nil
}
