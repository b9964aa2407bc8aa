package api

import (
	"net/http"
)

// SchemaHandler serves the skill and layer schema.
type SchemaHandler struct {
	deps SchemaProvider
}

// NewSchemaHandler creates a new schema handler.
func NewSchemaHandler(deps SchemaProvider) *SchemaHandler {
	return &SchemaHandler{deps: deps}
}

// HandleSchema handles GET /schema requests.
func (h *SchemaHandler) HandleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Schema(r.Context()))
}
