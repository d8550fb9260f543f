package social

import (
	"errors"
	"net/http"
	"strconv"

	"artlog/internal/httpx"
	"artlog/internal/profile"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// FindUser handles GET /v1/users/search
// @Summary Find a user by username
// @Tags social
// @Produce json
// @Param username query string true "Exact username"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /v1/users/search [get]
func (h *HTTPHandler) FindUser(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "username is required", nil)
		return
	}

	friend, err := h.service.FindByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, friend, nil)
}

// Follow handles PUT /v1/me/following/{id}
// @Summary Follow a user
// @Tags social
// @Param id path string true "User ID to follow"
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /v1/me/following/{id} [put]
func (h *HTTPHandler) Follow(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	if err := h.service.Follow(r.Context(), userID, r.PathValue("id")); err != nil {
		if errors.Is(err, ErrSelfFollow) {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONNoContent(w)
}

// Unfollow handles DELETE /v1/me/following/{id}
// @Summary Unfollow a user
// @Tags social
// @Param id path string true "User ID to unfollow"
// @Success 204
// @Security BearerAuth
// @Router /v1/me/following/{id} [delete]
func (h *HTTPHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	if err := h.service.Unfollow(r.Context(), userID, r.PathValue("id")); err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONNoContent(w)
}

// IsFollowing handles GET /v1/me/following/{id}
// @Summary Check whether I follow a user
// @Tags social
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} httpx.SuccessResponse
// @Security BearerAuth
// @Router /v1/me/following/{id} [get]
func (h *HTTPHandler) IsFollowing(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	ok, err := h.service.IsFollowing(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, map[string]bool{"following": ok}, nil)
}

// ListFollowing handles GET /v1/me/following
// @Summary List followed users
// @Tags social
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Security BearerAuth
// @Router /v1/me/following [get]
func (h *HTTPHandler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	friends, err := h.service.Following(r.Context(), userID)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, friends, nil)
}

// Feed handles GET /v1/me/feed
// @Summary Recent reviews by followed users
// @Tags social
// @Produce json
// @Param limit query int false "Max entries" default(20)
// @Success 200 {object} httpx.SuccessResponse
// @Security BearerAuth
// @Router /v1/me/feed [get]
func (h *HTTPHandler) Feed(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	limit := DefaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be between 1 and 100", nil)
			return
		}
		limit = n
	}

	activity, err := h.service.FriendActivity(r.Context(), userID, limit)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, activity, nil)
}
