package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer renders the embedded HTML views.
// Every failure path of the portal resolves to a rendered page or a redirect,
// never to a raw JSON error or a hung request.
type Renderer struct {
	templates *template.Template

	// InternalErrorHook is called whenever an unexpected error is funneled into the generic error page
	InternalErrorHook func(err error)
}

// NewRenderer parses the embedded views and creates a new renderer
func NewRenderer() (*Renderer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: templates}, nil
}

// Render renders a single view with the given HTTP status code.
// A template failure falls through to the generic error path so the browser never hangs.
func (renderer *Renderer) Render(rw http.ResponseWriter, status int, name string, data any) {
	buf := new(bytes.Buffer)
	if err := renderer.templates.ExecuteTemplate(buf, name, data); err != nil {
		renderer.RenderInternalError(rw, err)
		return
	}
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.WriteHeader(status)
	rw.Write(buf.Bytes())
}

// RenderInternalError records an unexpected error and renders the generic error page
func (renderer *Renderer) RenderInternalError(rw http.ResponseWriter, err error) {
	if renderer.InternalErrorHook != nil {
		renderer.InternalErrorHook(err)
	}
	buf := new(bytes.Buffer)
	if tplErr := renderer.templates.ExecuteTemplate(buf, "error.html", nil); tplErr != nil {
		http.Error(rw, "Sorry, we are experiencing technical difficulties.", http.StatusInternalServerError)
		return
	}
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.WriteHeader(http.StatusInternalServerError)
	rw.Write(buf.Bytes())
}

// RenderNotFound renders the 404 page
func (renderer *Renderer) RenderNotFound(rw http.ResponseWriter, data any) {
	renderer.Render(rw, http.StatusNotFound, "404.html", data)
}
