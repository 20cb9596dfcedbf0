package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer writes the named page with the given context.
type Renderer interface {
	Render(w io.Writer, name string, data map[string]any) error
}

type TemplateRenderer struct {
	cache map[string]*template.Template
}

var funcs = template.FuncMap{
	"since": since,
}

// NewTemplateRenderer parses every page together with the base layout.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	cache := make(map[string]*template.Template)

	pages, err := fs.Glob(templateFS, "templates/pages/*.tmpl")
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		name := path.Base(page)
		patterns := []string{
			"templates/base.html.tmpl",
			page,
		}

		ts, err := template.New(name).Funcs(funcs).ParseFS(templateFS, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}

		cache[name] = ts
	}

	return &TemplateRenderer{cache: cache}, nil
}

// Render executes into a buffer first so a failing template never
// leaves a half written page behind.
func (tr *TemplateRenderer) Render(w io.Writer, name string, data map[string]any) error {
	tmpl, ok := tr.cache[name]
	if !ok {
		return fmt.Errorf("template %q not in cache", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}

	_, err := buf.WriteTo(w)
	return err
}

// Static returns the embedded stylesheet and image assets.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func since(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour") + " ago"
	default:
		return plural(int(d/(24*time.Hour)), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
