package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artlog/internal/artist"
	"artlog/internal/docstore"
	"artlog/internal/review"
)

type noImages struct{}

func (noImages) ArtistImageURL(context.Context, string) (string, bool) { return "", false }

type fixture struct {
	docs    *docstore.MemoryStore
	reviews *review.Repository
	artists *artist.Store
	service *Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	docs := docstore.NewMemoryStore(10)
	reviews := review.NewRepository(docs)
	artists := artist.NewStore(docs, noImages{})
	return fixture{
		docs:    docs,
		reviews: reviews,
		artists: artists,
		service: NewService(docs, reviews, artists),
	}
}

func ptr(s string) *string { return &s }

func TestService_GetOwnProfile_NoDocument(t *testing.T) {
	f := newFixture(t)

	p, err := f.service.GetOwnProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.Empty(t, p.Username)
	assert.Zero(t, p.Stats.ReviewsCount)
	assert.Empty(t, p.Stats.TopArtists)

	_, err = f.service.GetPublicProfile(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Stats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, docstore.PutJSON(ctx, f.docs, Collection, "u1", Document{Username: "ada", Bio: "painter"}))
	for range 2 {
		_, err := f.reviews.SaveReview(ctx, review.Review{UserID: "u1"})
		require.NoError(t, err)
	}
	urls := []string{"https://www.wikidata.org/wiki/Q1", "https://www.wikidata.org/wiki/Q2", "https://www.wikidata.org/wiki/Q2"}
	for _, u := range urls {
		require.NoError(t, f.artists.Increment(ctx, "u1", u))
	}

	p, err := f.service.GetPublicProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ada", p.Username)
	assert.Equal(t, "painter", p.Bio)
	assert.Equal(t, 2, p.Stats.ReviewsCount)
	assert.Equal(t, 2, p.Stats.ArtistsCount)
	require.Len(t, p.Stats.TopArtists, 2)
	assert.Equal(t, "https://www.wikidata.org/wiki/Q2", p.Stats.TopArtists[0].URL)
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("trims and merges", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.docs.Put(ctx, Collection, "u1", []byte(`{"username":"old","bio":"keep","updatedAt":"x"}`)))

		p, err := f.service.UpdateProfile(ctx, "u1", UpdateCommand{Username: ptr("  grace  ")})
		require.NoError(t, err)
		assert.Equal(t, "grace", p.Username)
		assert.Equal(t, "keep", p.Bio)

		raw, err := f.docs.Get(ctx, Collection, "u1")
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"updatedAt":"x"`)
	})

	t.Run("too short", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.UpdateProfile(ctx, "u1", UpdateCommand{Username: ptr(" ab ")})
		assert.ErrorIs(t, err, ErrInvalidUsername)
	})

	t.Run("taken by someone else", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, docstore.PutJSON(ctx, f.docs, Collection, "u2", Document{Username: "grace"}))

		_, err := f.service.UpdateProfile(ctx, "u1", UpdateCommand{Username: ptr("grace")})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("keeping own username", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, docstore.PutJSON(ctx, f.docs, Collection, "u1", Document{Username: "grace"}))

		p, err := f.service.UpdateProfile(ctx, "u1", UpdateCommand{Username: ptr("grace"), Bio: ptr("new bio")})
		require.NoError(t, err)
		assert.Equal(t, "new bio", p.Bio)
	})
}

func TestService_FindByUsername(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, docstore.PutJSON(ctx, f.docs, Collection, "u7", Document{Username: "hilma"}))

	id, doc, err := f.service.FindByUsername(ctx, " hilma ")
	require.NoError(t, err)
	assert.Equal(t, "u7", id)
	assert.Equal(t, "hilma", doc.Username)

	_, _, err = f.service.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
