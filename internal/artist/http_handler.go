package artist

import (
	"net/http"
	"strconv"

	"artlog/internal/httpx"
)

const defaultTopLimit = 5

type HTTPHandler struct {
	store *Store
}

func NewHTTPHandler(store *Store) *HTTPHandler {
	return &HTTPHandler{store: store}
}

// MyTop handles GET /v1/me/artists/top
// @Summary Get my top artists
// @Description Artists ranked by how many of my reviews reference them
// @Tags artists
// @Produce json
// @Param limit query int false "Max rows, 0 for all" default(5)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /v1/me/artists/top [get]
func (h *HTTPHandler) MyTop(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	h.writeTop(w, r, userID)
}

// UserTop handles GET /v1/users/{id}/artists/top
// @Summary Get a user's top artists
// @Tags artists
// @Produce json
// @Param id path string true "User ID"
// @Param limit query int false "Max rows, 0 for all" default(5)
// @Success 200 {object} httpx.SuccessResponse
// @Security BearerAuth
// @Router /v1/users/{id}/artists/top [get]
func (h *HTTPHandler) UserTop(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "User ID is required", nil)
		return
	}
	h.writeTop(w, r, userID)
}

func (h *HTTPHandler) writeTop(w http.ResponseWriter, r *http.Request, userID string) {
	limit := defaultTopLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a non-negative integer", nil)
			return
		}
		limit = n
	}

	top, err := h.store.Top(r.Context(), userID, limit)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, top, nil)
}
