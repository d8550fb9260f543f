package review

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"artlog/internal/docstore"
)

type Repository struct {
	docs docstore.Store
	now  func() time.Time
}

func NewRepository(docs docstore.Store) *Repository {
	return &Repository{docs: docs, now: time.Now}
}

// SaveArtwork assigns an id and creation time when missing and stores the
// artwork.
func (r *Repository) SaveArtwork(ctx context.Context, a Artwork) (Artwork, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.now().UTC()
	}
	if err := docstore.PutJSON(ctx, r.docs, ArtworkCollection, a.ID, a); err != nil {
		return Artwork{}, fmt.Errorf("save artwork: %w", err)
	}
	return a, nil
}

func (r *Repository) GetArtwork(ctx context.Context, id string) (Artwork, error) {
	var a Artwork
	if err := docstore.GetJSON(ctx, r.docs, ArtworkCollection, id, &a); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return Artwork{}, ErrNotFound
		}
		return Artwork{}, err
	}
	a.ID = id
	return a, nil
}

func (r *Repository) SaveReview(ctx context.Context, rv Review) (Review, error) {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = r.now().UTC()
	}
	if err := docstore.PutJSON(ctx, r.docs, ReviewCollection, rv.ID, rv); err != nil {
		return Review{}, fmt.Errorf("save review: %w", err)
	}
	return rv, nil
}

func (r *Repository) GetReview(ctx context.Context, id string) (Review, error) {
	var rv Review
	if err := docstore.GetJSON(ctx, r.docs, ReviewCollection, id, &rv); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return Review{}, ErrNotFound
		}
		return Review{}, err
	}
	rv.ID = id
	return rv, nil
}

// ListByUser returns the user's reviews, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Review, error) {
	docs, err := r.docs.Where(ctx, ReviewCollection, "userId", userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews for %s: %w", userID, err)
	}

	reviews := make([]Review, 0, len(docs))
	for _, d := range docs {
		var rv Review
		if err := json.Unmarshal(d.Data, &rv); err != nil {
			continue
		}
		rv.ID = d.ID
		reviews = append(reviews, rv)
	}
	sortNewestFirst(reviews)
	return reviews, nil
}

// ListByUsers merges the reviews of several users, newest first, capped at
// limit when limit > 0.
func (r *Repository) ListByUsers(ctx context.Context, userIDs []string, limit int) ([]Review, error) {
	var all []Review
	for _, id := range userIDs {
		reviews, err := r.ListByUser(ctx, id)
		if err != nil {
			return nil, err
		}
		all = append(all, reviews...)
	}
	sortNewestFirst(all)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	if all == nil {
		all = []Review{}
	}
	return all, nil
}

func sortNewestFirst(reviews []Review) {
	slices.SortStableFunc(reviews, func(a, b Review) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
