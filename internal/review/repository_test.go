package review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artlog/internal/docstore"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo := NewRepository(docstore.NewMemoryStore(10))
	base := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return repo
}

func TestRepository_SaveAndGetArtwork(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	saved, err := repo.SaveArtwork(ctx, Artwork{UserID: "u1", Title: "Untitled", Artist: "Agnes Martin"})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := repo.GetArtwork(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	_, err = repo.GetArtwork(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_ReviewSnapshotFields(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	saved, err := repo.SaveReview(ctx, Review{
		UserID:            "u1",
		MetSourceID:       "436535",
		DateViewed:        "2025-05-10",
		Location:          "The Met",
		ReviewText:        "Loud cypresses.",
		ImageURL:          "https://images.metmuseum.org/small.jpg",
		ArtistWikidataURL: "https://www.wikidata.org/wiki/Q5582",
		ArtistULANURL:     "http://vocab.getty.edu/ulan/500115588",
	})
	require.NoError(t, err)

	got, err := repo.GetReview(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	raw, err := repo.docs.Get(ctx, ReviewCollection, saved.ID)
	require.NoError(t, err)
	for _, key := range []string{`"userId"`, `"metSourceId"`, `"dateViewed"`, `"location"`, `"reviewText"`, `"imageURL"`, `"artistWikidataURL"`, `"artistULANURL"`, `"createdAt"`} {
		assert.Contains(t, string(raw), key)
	}
	assert.NotContains(t, string(raw), `"artworkId"`)
}

func TestRepository_ListByUser(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	first, err := repo.SaveReview(ctx, Review{UserID: "u1", ReviewText: "first"})
	require.NoError(t, err)
	_, err = repo.SaveReview(ctx, Review{UserID: "u2", ReviewText: "other"})
	require.NoError(t, err)
	second, err := repo.SaveReview(ctx, Review{UserID: "u1", ReviewText: "second"})
	require.NoError(t, err)

	reviews, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, second.ID, reviews[0].ID)
	assert.Equal(t, first.ID, reviews[1].ID)

	none, err := repo.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_ListByUsers(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for _, u := range []string{"a", "b", "a", "c", "b"} {
		_, err := repo.SaveReview(ctx, Review{UserID: u, ReviewText: "by " + u})
		require.NoError(t, err)
	}

	reviews, err := repo.ListByUsers(ctx, []string{"a", "b"}, 3)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	assert.Equal(t, "b", reviews[0].UserID)
	assert.Equal(t, "a", reviews[1].UserID)
	assert.Equal(t, "b", reviews[2].UserID)
	assert.True(t, reviews[0].CreatedAt.After(reviews[1].CreatedAt))

	empty, err := repo.ListByUsers(ctx, nil, 20)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
