// Package view renderiza las páginas HTML del portal con html/template.
// Cada página se compone sobre un layout común que aplica el skin y el
// logo del tenant activo.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/tourcube/guideportal/internal/observability/logger"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Branding agrupa los datos de marca del tenant que consume el layout.
type Branding struct {
	CompanyCode string
	Mode        string
	Logo        string
	SkinName    string
	HTMLHeader  string
}

// Page es el sobre común que reciben todos los templates.
type Page struct {
	Branding  Branding
	Title     string
	UserName  string
	UserImage string
	UserRole  string
	ActiveTab string
	Error     string
	Message   string
	Data      any
}

// Renderer compila los templates embebidos una sola vez al arrancar.
type Renderer struct {
	pages map[string]*template.Template
}

var funcMap = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"year": func() int { return time.Now().Year() },
	"safeHTML": func(s string) template.HTML {
		// Solo se usa con el HTMLHeader del registro de tenants,
		// que es contenido controlado por operaciones.
		return template.HTML(s)
	},
}

var pageNames = []string{
	"login",
	"forgot_username",
	"guide_home",
	"vendor_home",
	"trip",
	"departure",
	"client",
	"error",
}

// New compila todos los templates. Falla en el arranque si alguno está roto.
func New() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.tmpl").Funcs(funcMap).ParseFS(
			templateFS,
			"templates/layout.tmpl",
			"templates/"+name+".tmpl",
		)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render escribe la página indicada. Si el template falla a mitad de
// escritura ya no se puede cambiar el status, solo loguear.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, p Page) {
	t, ok := r.pages[page]
	if !ok {
		logger.L().Error("unknown template", logger.Op("view.render"), logger.Any("page", page))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.Execute(w, p); err != nil {
		logger.L().Error("template execute failed",
			logger.Op("view.render"),
			logger.Any("page", page),
			logger.Err(err),
		)
	}
}

// RenderTo ejecuta un template sobre un io.Writer arbitrario (tests).
func (r *Renderer) RenderTo(w io.Writer, page string, p Page) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("view: unknown template %q", page)
	}
	return t.Execute(w, p)
}
