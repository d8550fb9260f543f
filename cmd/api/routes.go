package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"artlog/internal/artist"
	"artlog/internal/catalog"
	"artlog/internal/docstore"
	"artlog/internal/enrich"
	"artlog/internal/httpx"
	"artlog/internal/profile"
	"artlog/internal/review"
	"artlog/internal/social"
)

type handlers struct {
	catalog  *catalog.HTTPHandler
	enrich   *enrich.HTTPHandler
	artists  *artist.HTTPHandler
	reviews  *review.HTTPHandler
	profiles *profile.HTTPHandler
	social   *social.HTTPHandler
}

type middleware = func(http.Handler) http.Handler

// registerRoutes mounts every endpoint. public routes are rate limited by
// client IP, protected routes require a bearer token and are limited per
// user.
func registerRoutes(mux *http.ServeMux, h handlers, docs docstore.Store, auth, limit middleware) {
	route := func(pattern string, fn http.HandlerFunc, mws ...middleware) {
		mux.Handle(pattern, httpx.Instrument(pattern, httpx.Chain(fn, mws...)))
	}
	public := func(pattern string, fn http.HandlerFunc) {
		route(pattern, fn, limit)
	}
	protected := func(pattern string, fn http.HandlerFunc) {
		route(pattern, fn, auth, limit)
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := docs.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	public("GET /v1/catalog/search", h.enrich.Search)
	public("GET /v1/catalog/stats", h.catalog.Stats)
	public("GET /v1/catalog/objects/{id}", h.catalog.GetByID)
	public("GET /v1/catalog/objects/{id}/draft", h.enrich.CatalogDraft)
	public("GET /v1/artists/resolve", h.enrich.ResolveArtist)
	public("GET /v1/artists/details", h.enrich.ArtistDetails)

	protected("POST /v1/artworks/draft", h.enrich.PrepareDraft)
	protected("POST /v1/reviews", h.enrich.SubmitReview)
	protected("GET /v1/reviews/{id}", h.reviews.Get)

	protected("GET /v1/me/profile", h.profiles.GetOwnProfile)
	protected("PATCH /v1/me/profile", h.profiles.UpdateProfile)
	protected("GET /v1/me/reviews", h.reviews.ListMine)
	protected("GET /v1/me/artists/top", h.artists.MyTop)
	protected("GET /v1/me/feed", h.social.Feed)
	protected("GET /v1/me/following", h.social.ListFollowing)
	protected("GET /v1/me/following/{id}", h.social.IsFollowing)
	protected("PUT /v1/me/following/{id}", h.social.Follow)
	protected("DELETE /v1/me/following/{id}", h.social.Unfollow)

	protected("GET /v1/users/search", h.social.FindUser)
	protected("GET /v1/users/{id}/profile", h.profiles.GetPublicProfile)
	protected("GET /v1/users/{id}/reviews", h.reviews.ListByUser)
	protected("GET /v1/users/{id}/artists/top", h.artists.UserTop)
}
