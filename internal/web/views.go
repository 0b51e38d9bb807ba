package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer ejecuta los templates embebidos.
// Renderiza a buffer primero: si un template falla a mitad de ejecución
// no se escribe un body parcial con status 200.
type Renderer struct {
	tpl *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{
		tpl: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := rd.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
