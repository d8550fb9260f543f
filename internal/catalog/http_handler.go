package catalog

import (
	"net/http"

	"artlog/internal/httpx"
)

type HTTPHandler struct {
	index *Index
}

func NewHTTPHandler(index *Index) *HTTPHandler {
	return &HTTPHandler{index: index}
}

// GetByID handles GET /v1/catalog/objects/{id}
// @Summary Get catalog object
// @Description Retrieve a Met catalog record from the bundled export, without enrichment
// @Tags catalog
// @Produce json
// @Param id path string true "Met object ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/catalog/objects/{id} [get]
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Object ID is required", nil)
		return
	}

	rec, ok := h.index.GetByID(id)
	if !ok {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Object not found in catalog", nil)
		return
	}

	httpx.JSONSuccess(w, r, rec, nil)
}

// Stats handles GET /v1/catalog/stats
// @Summary Catalog statistics
// @Tags catalog
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/catalog/stats [get]
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, map[string]any{"count": h.index.Count()}, nil)
}
