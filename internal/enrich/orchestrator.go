package enrich

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"artlog/internal/catalog"
	"artlog/internal/config"
	"artlog/internal/logging"
	"artlog/internal/platform/wikidata"
	"artlog/internal/review"
)

type Orchestrator struct {
	graph   KnowledgeGraph
	met     Collection
	index   Catalog
	reviews ReviewStore
	artists AggregateStore
	cfg     config.EnrichConfig
}

func NewOrchestrator(graph KnowledgeGraph, met Collection, index Catalog, reviews ReviewStore, artists AggregateStore, cfg config.EnrichConfig) *Orchestrator {
	def := config.Default().Enrich
	if cfg.ResolveTimeout <= 0 {
		cfg.ResolveTimeout = def.ResolveTimeout
	}
	if cfg.SearchConcurrency <= 0 {
		cfg.SearchConcurrency = def.SearchConcurrency
	}
	if cfg.MaxSearchResults <= 0 {
		cfg.MaxSearchResults = def.MaxSearchResults
	}
	if cfg.AggregateTimeout <= 0 {
		cfg.AggregateTimeout = def.AggregateTimeout
	}
	return &Orchestrator{
		graph:   graph,
		met:     met,
		index:   index,
		reviews: reviews,
		artists: artists,
		cfg:     cfg,
	}
}

// ResolveArtist resolves name within the configured timeout. A timeout or
// failure yields the empty identity.
func (o *Orchestrator) ResolveArtist(ctx context.Context, name string) wikidata.Identity {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.ResolveTimeout)
	defer cancel()

	id := o.graph.ResolveIdentity(ctx, name)
	if ctx.Err() != nil {
		return wikidata.Identity{}
	}
	return id
}

// PrepareDraft attaches the artist identity URLs to a manually entered
// artwork. It never fails; an unresolved artist leaves both URLs empty.
func (o *Orchestrator) PrepareDraft(ctx context.Context, a review.Artwork) review.Artwork {
	id := o.ResolveArtist(ctx, a.Artist)
	a.ArtistWikidataURL = id.WikidataURL
	a.ArtistULANURL = id.ULANURL
	return a
}

// DraftFromCatalog builds a catalog-sourced draft. Identity URLs come from
// the record itself.
func DraftFromCatalog(rec catalog.Record) review.Artwork {
	image := rec.PrimaryImageSmall
	if image == "" {
		image = rec.PrimaryImage
	}
	return review.Artwork{
		Title:             rec.Title,
		Artist:            rec.ArtistDisplayName,
		Date:              rec.ObjectDate,
		Medium:            rec.Medium,
		MetSourceID:       rec.ID,
		ImageURL:          image,
		ArtistWikidataURL: rec.ArtistWikidataURL,
		ArtistULANURL:     rec.ArtistULANURL,
	}
}

// CatalogDraft looks the object up in the local catalog, enriching its
// images, and falls back to the collection API for objects the bundled
// catalog does not carry.
func (o *Orchestrator) CatalogDraft(ctx context.Context, objectID string) (review.Artwork, error) {
	if rec, ok := o.index.GetByID(objectID); ok {
		return DraftFromCatalog(o.met.Enrich(ctx, rec)), nil
	}

	rec, err := o.met.FetchByID(ctx, objectID)
	if err != nil {
		return review.Artwork{}, fmt.Errorf("%w: %s: %w", ErrNotFound, objectID, err)
	}
	return DraftFromCatalog(rec), nil
}

// SubmitReview persists the review, and the artwork when it was entered
// manually, then counts the artist. Only persistence failures are returned.
func (o *Orchestrator) SubmitReview(ctx context.Context, userID string, a review.Artwork, rv review.Review) (review.Review, error) {
	rv.UserID = userID
	rv.ImageURL = a.ImageURL
	rv.ArtistWikidataURL = a.ArtistWikidataURL
	rv.ArtistULANURL = a.ArtistULANURL

	if a.FromCatalog() {
		rv.MetSourceID = a.MetSourceID
		rv.ArtworkID = ""
	} else {
		a.UserID = userID
		saved, err := o.reviews.SaveArtwork(ctx, a)
		if err != nil {
			return review.Review{}, &SubmitError{Message: "Could not save your artwork. Please try again.", Err: err}
		}
		rv.ArtworkID = saved.ID
		rv.MetSourceID = ""
	}

	saved, err := o.reviews.SaveReview(ctx, rv)
	if err != nil {
		return review.Review{}, &SubmitError{Message: "Could not save your review. Please try again.", Err: err}
	}

	if saved.ArtistWikidataURL != "" {
		// The review is stored; a client disconnect must not lose its count.
		actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.cfg.AggregateTimeout)
		defer cancel()
		if err := o.artists.Increment(actx, userID, saved.ArtistWikidataURL); err != nil {
			logging.Ctx(ctx).Warn().Err(err).
				Str("user_id", userID).
				Str("artist", saved.ArtistWikidataURL).
				Str("review_id", saved.ID).
				Msg("artist aggregate update failed")
		}
	}
	return saved, nil
}

// Search returns catalog hits with images from the collection API. At most
// MaxSearchResults hits are enriched; the result keeps search order.
func (o *Orchestrator) Search(ctx context.Context, query string) []catalog.Record {
	hits := o.index.Search(query)
	if len(hits) > o.cfg.MaxSearchResults {
		hits = hits[:o.cfg.MaxSearchResults]
	}

	start := time.Now()
	results := make([]catalog.Record, len(hits))
	var g errgroup.Group
	g.SetLimit(o.cfg.SearchConcurrency)
	for i, hit := range hits {
		g.Go(func() error {
			results[i] = o.met.Enrich(ctx, hit)
			return nil
		})
	}
	_ = g.Wait()

	logging.Ctx(ctx).Debug().
		Str("query", query).
		Int("hits", len(results)).
		Dur("duration", time.Since(start)).
		Msg("catalog search enriched")
	return results
}

func (o *Orchestrator) ArtistDetails(ctx context.Context, identityURL string) (wikidata.ArtistDetails, bool) {
	return o.graph.FetchDetails(ctx, identityURL)
}
