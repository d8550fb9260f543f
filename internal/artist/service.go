package artist

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-json"

	"artlog/internal/docstore"
	"artlog/internal/logging"
	"artlog/internal/metrics"
)

// ImageSource supplies a candidate portrait for an artist identity URL.
type ImageSource interface {
	ArtistImageURL(ctx context.Context, identityURL string) (string, bool)
}

type Store struct {
	docs   docstore.Store
	images ImageSource
}

func NewStore(docs docstore.Store, images ImageSource) *Store {
	return &Store{docs: docs, images: images}
}

// Increment adds one review to (user, identityURL). The candidate image is
// looked up before the transaction and only stored if the entry has none.
func (s *Store) Increment(ctx context.Context, userID, identityURL string) error {
	if identityURL == "" {
		return nil
	}

	candidate, _ := s.images.ArtistImageURL(ctx, identityURL)

	err := s.docs.Transact(ctx, Collection, userID, func(current []byte, exists bool) ([]byte, error) {
		entries := map[string]json.RawMessage{}
		if exists {
			if err := json.Unmarshal(current, &entries); err != nil {
				return nil, fmt.Errorf("decode aggregate: %w", err)
			}
		}

		var agg Aggregate
		if raw, ok := entries[identityURL]; ok && !isNull(raw) {
			if err := json.Unmarshal(raw, &agg); err != nil {
				return nil, fmt.Errorf("decode aggregate entry: %w", err)
			}
		}
		agg.Count++
		if agg.ImageURL == "" {
			agg.ImageURL = candidate
		}

		raw, err := json.Marshal(agg)
		if err != nil {
			return nil, err
		}
		entries[identityURL] = raw
		return json.Marshal(entries)
	})
	if err != nil {
		metrics.AggregateIncrements.WithLabelValues("failure").Inc()
		return fmt.Errorf("%w: user %s: %w", ErrAggregateWrite, userID, err)
	}

	metrics.AggregateIncrements.WithLabelValues("success").Inc()
	return nil
}

// Counts returns every artist entry for a user. Entries that are null, cannot
// be decoded or carry no positive count are skipped.
func (s *Store) Counts(ctx context.Context, userID string) (map[string]Aggregate, error) {
	out := map[string]Aggregate{}

	var entries map[string]json.RawMessage
	if err := docstore.GetJSON(ctx, s.docs, Collection, userID, &entries); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return out, nil
		}
		return nil, err
	}

	for url, raw := range entries {
		var agg Aggregate
		if err := json.Unmarshal(raw, &agg); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Str("artist", url).Msg("skipping malformed artist aggregate")
			continue
		}
		if agg.Count < 1 {
			continue
		}
		out[url] = agg
	}
	return out, nil
}

// Top returns the user's artists by descending count, ties by URL. A limit
// of zero or less returns all of them.
func (s *Store) Top(ctx context.Context, userID string, limit int) ([]Ranked, error) {
	counts, err := s.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}

	ranked := make([]Ranked, 0, len(counts))
	for url, agg := range counts {
		ranked = append(ranked, Ranked{URL: url, Count: agg.Count, ImageURL: agg.ImageURL})
	}
	slices.SortFunc(ranked, func(a, b Ranked) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.URL, b.URL)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
