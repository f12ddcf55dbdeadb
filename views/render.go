package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Renderer is a gin HTMLRender. Full pages get their own clone of the base
// layout so each can define its own "content" block; any other name is
// looked up as a fragment among the shared partials.
type Renderer struct {
	pages    map[string]*template.Template
	partials *template.Template
}

var _ render.HTMLRender = (*Renderer)(nil)

// New parses the layout, partials and every page template
func New() (*Renderer, error) {
	base, err := template.New("").Funcs(Funcs()).ParseFS(templateFiles,
		"templates/layouts/*.html",
		"templates/partials/*.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}

	pageFiles, err := fs.Glob(templateFiles, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, page := range pageFiles {
		tmpl, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := tmpl.ParseFS(templateFiles, page); err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		pages[path.Base(page)] = tmpl
	}

	return &Renderer{pages: pages, partials: base}, nil
}

// MustNew is New for use at startup
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Instance implements render.HTMLRender
func (r *Renderer) Instance(name string, data any) render.Render {
	if tmpl, ok := r.pages[name]; ok {
		return render.HTML{Template: tmpl, Name: "base", Data: data}
	}
	return render.HTML{Template: r.partials, Name: name, Data: data}
}

// HasPage reports whether name is a full page template
func (r *Renderer) HasPage(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Static returns the embedded stylesheet and script tree
func Static() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
