// Package site serves the landing page that describes the configured layers.
package site

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"strings"

	service "github.com/okian/promosim/internal/app"
	"github.com/okian/promosim/internal/domain/schema"
	"github.com/okian/promosim/pkg/logger"
)

//go:embed static/index.html.tmpl
var staticFS embed.FS

var page = template.Must(template.New("index.html.tmpl").Funcs(template.FuncMap{
	"join": func(skills []schema.Skill) string {
		names := make([]string, len(skills))
		for i, s := range skills {
			names[i] = s.String()
		}
		return strings.Join(names, ", ")
	},
}).ParseFS(staticFS, "static/index.html.tmpl"))

// SchemaProvider supplies the layers shown on the page.
type SchemaProvider interface {
	Schema(ctx context.Context) service.Schema
}

// Register attaches GET / to mux. Other unmatched paths stay 404.
func Register(mux *http.ServeMux, schemas SchemaProvider) {
	if mux == nil {
		panic("mux is nil")
	}
	if schemas == nil {
		panic("schema provider is nil")
	}
	mux.Handle("/{$}", NewRootHandler(schemas))
}

// RootHandler renders the landing page.
type RootHandler struct {
	schemas SchemaProvider
}

// NewRootHandler creates a new root handler.
func NewRootHandler(schemas SchemaProvider) *RootHandler {
	return &RootHandler{schemas: schemas}
}

func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, h.schemas.Schema(r.Context())); err != nil {
		logger.Named("site").Error(r.Context(), "render landing page", logger.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
