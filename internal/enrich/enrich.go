// Package enrich sequences identity resolution, catalog image enrichment,
// review persistence and the artist aggregate update.
package enrich

import (
	"context"
	"errors"

	"artlog/internal/catalog"
	"artlog/internal/platform/wikidata"
	"artlog/internal/review"
)

var (
	ErrSubmitFailed = errors.New("review submission failed")
	ErrNotFound     = errors.New("catalog object not found")
)

// SubmitError is a primary persistence failure. Message is safe to show to
// the user.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *SubmitError) Unwrap() []error {
	return []error{ErrSubmitFailed, e.Err}
}

type KnowledgeGraph interface {
	ResolveIdentity(ctx context.Context, name string) wikidata.Identity
	FetchDetails(ctx context.Context, identityURL string) (wikidata.ArtistDetails, bool)
}

type Collection interface {
	FetchByID(ctx context.Context, objectID string) (catalog.Record, error)
	Enrich(ctx context.Context, rec catalog.Record) catalog.Record
}

type Catalog interface {
	Search(query string) []catalog.Record
	GetByID(id string) (catalog.Record, bool)
}

type ReviewStore interface {
	SaveArtwork(ctx context.Context, a review.Artwork) (review.Artwork, error)
	SaveReview(ctx context.Context, rv review.Review) (review.Review, error)
}

type AggregateStore interface {
	Increment(ctx context.Context, userID, identityURL string) error
}
