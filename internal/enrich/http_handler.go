package enrich

import (
	"errors"
	"net/http"

	"artlog/internal/httpx"
	"artlog/internal/logging"
	"artlog/internal/review"
)

type ArtworkInput struct {
	Title             string `json:"title" validate:"required,max=300"`
	Artist            string `json:"artist" validate:"max=300"`
	Date              string `json:"date" validate:"max=100"`
	Medium            string `json:"medium" validate:"max=300"`
	Movement          string `json:"movement" validate:"max=100"`
	MetSourceID       string `json:"metSourceId" validate:"max=20"`
	ImageURL          string `json:"imageURL" validate:"omitempty,url"`
	ArtistWikidataURL string `json:"artistWikidataURL" validate:"omitempty,url"`
	ArtistULANURL     string `json:"artistULANURL" validate:"omitempty,url"`
}

func (in ArtworkInput) artwork() review.Artwork {
	return review.Artwork{
		Title:             in.Title,
		Artist:            in.Artist,
		Date:              in.Date,
		Medium:            in.Medium,
		Movement:          in.Movement,
		MetSourceID:       in.MetSourceID,
		ImageURL:          in.ImageURL,
		ArtistWikidataURL: in.ArtistWikidataURL,
		ArtistULANURL:     in.ArtistULANURL,
	}
}

type SubmitRequest struct {
	Artwork    ArtworkInput `json:"artwork"`
	DateViewed string       `json:"dateViewed" validate:"required,datetime=2006-01-02"`
	Location   string       `json:"location" validate:"max=300"`
	ReviewText string       `json:"reviewText" validate:"required,max=10000"`
}

type HTTPHandler struct {
	orchestrator *Orchestrator
}

func NewHTTPHandler(o *Orchestrator) *HTTPHandler {
	return &HTTPHandler{orchestrator: o}
}

// Search handles GET /v1/catalog/search
// @Summary Search the catalog
// @Description Substring search over the bundled catalog; hits carry images from the collection API
// @Tags catalog
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/catalog/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	results := h.orchestrator.Search(r.Context(), q)
	httpx.JSONSuccess(w, r, results, map[string]any{"total": len(results)})
}

// CatalogDraft handles GET /v1/catalog/objects/{id}/draft
// @Summary Build a review draft for a catalog object
// @Tags catalog
// @Produce json
// @Param id path string true "Met object ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/catalog/objects/{id}/draft [get]
func (h *HTTPHandler) CatalogDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.orchestrator.CatalogDraft(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Catalog object not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, draft, nil)
}

// PrepareDraft handles POST /v1/artworks/draft
// @Summary Prepare a manually entered artwork
// @Description Resolves the artist's Wikidata and ULAN URLs. Unresolved artists leave both empty.
// @Tags artworks
// @Accept json
// @Produce json
// @Param request body ArtworkInput true "Artwork"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /v1/artworks/draft [post]
func (h *HTTPHandler) PrepareDraft(w http.ResponseWriter, r *http.Request) {
	var in ArtworkInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(in); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	httpx.JSONSuccess(w, r, h.orchestrator.PrepareDraft(r.Context(), in.artwork()), nil)
}

// SubmitReview handles POST /v1/reviews
// @Summary Submit a review
// @Tags reviews
// @Accept json
// @Produce json
// @Param request body SubmitRequest true "Artwork and review"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /v1/reviews [post]
func (h *HTTPHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var req SubmitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	saved, err := h.orchestrator.SubmitReview(r.Context(), userID, req.Artwork.artwork(), review.Review{
		DateViewed: req.DateViewed,
		Location:   req.Location,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", userID).Msg("review submission failed")
		var se *SubmitError
		if errors.As(err, &se) {
			httpx.JSONError(w, r, http.StatusInternalServerError, "SUBMIT_FAILED", se.Message, nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONCreated(w, r, saved)
}

// ResolveArtist handles GET /v1/artists/resolve
// @Summary Resolve an artist name to Wikidata and ULAN URLs
// @Tags artists
// @Produce json
// @Param name query string true "Artist name"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/artists/resolve [get]
func (h *HTTPHandler) ResolveArtist(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "name is required", nil)
		return
	}
	httpx.JSONSuccess(w, r, h.orchestrator.ResolveArtist(r.Context(), name), nil)
}

// ArtistDetails handles GET /v1/artists/details
// @Summary Artist details from Wikidata
// @Tags artists
// @Produce json
// @Param url query string true "Wikidata entity URL or Q-id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/artists/details [get]
func (h *HTTPHandler) ArtistDetails(w http.ResponseWriter, r *http.Request) {
	details, ok := h.orchestrator.ArtistDetails(r.Context(), r.URL.Query().Get("url"))
	if !ok {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Artist not found", nil)
		return
	}
	httpx.JSONSuccess(w, r, details, nil)
}
