package review

import (
	"errors"
	"net/http"

	"artlog/internal/httpx"
)

type HTTPHandler struct {
	repo *Repository
}

func NewHTTPHandler(repo *Repository) *HTTPHandler {
	return &HTTPHandler{repo: repo}
}

// ListMine handles GET /v1/me/reviews
// @Summary List my reviews
// @Tags reviews
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /v1/me/reviews [get]
func (h *HTTPHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	h.list(w, r, userID)
}

// ListByUser handles GET /v1/users/{id}/reviews
// @Summary List a user's reviews
// @Tags reviews
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} httpx.SuccessResponse
// @Security BearerAuth
// @Router /v1/users/{id}/reviews [get]
func (h *HTTPHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "User ID is required", nil)
		return
	}
	h.list(w, r, userID)
}

func (h *HTTPHandler) list(w http.ResponseWriter, r *http.Request, userID string) {
	reviews, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, reviews, map[string]any{"total": len(reviews)})
}

// Get handles GET /v1/reviews/{id}
// @Summary Get a review
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /v1/reviews/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	rv, err := h.repo.GetReview(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Review not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, rv, nil)
}
