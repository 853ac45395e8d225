package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
)

// View represents a collection of parsed HTML templates.
type View struct {
	templates map[string]*template.Template
}

// New creates a new View by parsing all templates from the given filesystem.
// Every page is parsed together with all layouts and partials.
func New(templateFS fs.FS) (*View, error) {
	v := &View{
		templates: make(map[string]*template.Template),
	}

	layouts, err := fs.Glob(templateFS, "templates/layouts/*.html")
	if err != nil {
		return nil, err
	}
	partials, err := fs.Glob(templateFS, "templates/partials/*.html")
	if err != nil {
		return nil, err
	}
	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	shared := append(layouts, partials...)
	for _, page := range pages {
		files := append(append([]string{}, shared...), page)
		// The name of the template is the base name of the page file
		name := filepath.Base(page)
		ts, err := template.New(name).Funcs(funcs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		v.templates[name] = ts
	}

	return v, nil
}

// Render executes the base layout of page name.
func (v *View) Render(w io.Writer, r *http.Request, name string, data map[string]interface{}) error {
	return v.execute(w, r, name, "base", data)
}

// RenderPartial executes only the block called block of page name, for
// htmx swaps.
func (v *View) RenderPartial(w io.Writer, r *http.Request, name, block string, data map[string]interface{}) error {
	return v.execute(w, r, name, block, data)
}

func (v *View) execute(w io.Writer, r *http.Request, name, block string, data map[string]interface{}) error {
	ts, ok := v.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	if data == nil {
		data = make(map[string]interface{})
	}
	data["IsBasicMode"] = IsBasicMode(r.Context())

	// Execute the template into a buffer first to catch any errors
	// before writing to the response writer.
	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, block, data); err != nil {
		return err
	}

	_, err := buf.WriteTo(w)
	return err
}
