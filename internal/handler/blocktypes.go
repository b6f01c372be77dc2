package handler

import (
	"net/http"

	"crok/internal/blocktypes"
	"crok/internal/httputil"
)

// BlockTypeHandler serves the block type catalog used to populate the
// editor's type picker menu.
type BlockTypeHandler struct {
	registry *blocktypes.Registry
}

// NewBlockTypeHandler creates a new block type handler
func NewBlockTypeHandler(registry *blocktypes.Registry) *BlockTypeHandler {
	return &BlockTypeHandler{registry: registry}
}

// ListBlockTypes returns the catalog, optionally filtered by a search
// query against labels, descriptions and keywords.
// GET /api/block-types?q=
func (h *BlockTypeHandler) ListBlockTypes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	httputil.RespondJSON(w, http.StatusOK, h.registry.Search(query))
}
