package artist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"artlog/internal/config"
	"artlog/internal/docstore"
)

type MockImageSource struct {
	mock.Mock
}

func (m *MockImageSource) ArtistImageURL(ctx context.Context, identityURL string) (string, bool) {
	args := m.Called(ctx, identityURL)
	return args.String(0), args.Bool(1)
}

const monet = "https://www.wikidata.org/wiki/Q296"

func TestAggregate_UnmarshalLegacy(t *testing.T) {
	var entries map[string]Aggregate
	raw := `{"a":7,"b":{"count":3,"imageURL":"b.jpg"},"c":{"count":2}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))

	assert.Equal(t, Aggregate{Count: 7}, entries["a"])
	assert.Equal(t, Aggregate{Count: 3, ImageURL: "b.jpg"}, entries["b"])
	assert.Equal(t, Aggregate{Count: 2}, entries["c"])
}

func TestStore_Increment(t *testing.T) {
	ctx := context.Background()

	t.Run("empty url is a no-op", func(t *testing.T) {
		images := new(MockImageSource)
		docs := docstore.NewMemoryStore(10)
		s := NewStore(docs, images)

		require.NoError(t, s.Increment(ctx, "u1", ""))

		_, err := docs.Get(ctx, Collection, "u1")
		assert.ErrorIs(t, err, docstore.ErrNotFound)
		images.AssertNotCalled(t, "ArtistImageURL", mock.Anything, mock.Anything)
	})

	t.Run("first write wins for image", func(t *testing.T) {
		images := new(MockImageSource)
		images.On("ArtistImageURL", mock.Anything, monet).Return("first.jpg", true).Once()
		images.On("ArtistImageURL", mock.Anything, monet).Return("second.jpg", true).Once()
		s := NewStore(docstore.NewMemoryStore(10), images)

		require.NoError(t, s.Increment(ctx, "u1", monet))
		require.NoError(t, s.Increment(ctx, "u1", monet))

		counts, err := s.Counts(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, Aggregate{Count: 2, ImageURL: "first.jpg"}, counts[monet])
		images.AssertExpectations(t)
	})

	t.Run("image fills in once available", func(t *testing.T) {
		images := new(MockImageSource)
		images.On("ArtistImageURL", mock.Anything, monet).Return("", false).Once()
		images.On("ArtistImageURL", mock.Anything, monet).Return("later.jpg", true).Once()
		s := NewStore(docstore.NewMemoryStore(10), images)

		require.NoError(t, s.Increment(ctx, "u1", monet))
		require.NoError(t, s.Increment(ctx, "u1", monet))

		counts, err := s.Counts(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "later.jpg", counts[monet].ImageURL)
	})

	t.Run("legacy integer is upgraded on rewrite", func(t *testing.T) {
		docs := docstore.NewMemoryStore(10)
		require.NoError(t, docs.Put(ctx, Collection, "u1", []byte(`{"`+monet+`":7,"other":4}`)))

		images := new(MockImageSource)
		images.On("ArtistImageURL", mock.Anything, monet).Return("m.jpg", true)
		s := NewStore(docs, images)

		counts, err := s.Counts(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, Aggregate{Count: 7}, counts[monet])

		require.NoError(t, s.Increment(ctx, "u1", monet))

		raw, err := docs.Get(ctx, Collection, "u1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"`+monet+`":{"count":8,"imageURL":"m.jpg"},"other":4}`, string(raw))
	})

	t.Run("concurrent increments converge", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		images := new(MockImageSource)
		images.On("ArtistImageURL", mock.Anything, monet).Return("m.jpg", true)
		s := NewStore(docstore.NewMemoryStore(config.Default().Store.MaxRetries), images)

		const n = 50
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.Increment(ctx, "u1", monet))
			}()
		}
		wg.Wait()

		counts, err := s.Counts(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, n, counts[monet].Count)
	})

	t.Run("concurrent increments converge on badger", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		docs, err := docstore.OpenBadger("", config.Default().Store.MaxRetries)
		require.NoError(t, err)
		defer docs.Close()

		images := new(MockImageSource)
		images.On("ArtistImageURL", mock.Anything, mock.Anything).Return("", false)
		s := NewStore(docs, images)

		const n = 20
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.Increment(ctx, "u1", monet))
			}()
		}
		wg.Wait()

		counts, err := s.Counts(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, n, counts[monet].Count)
	})

	t.Run("corrupt document is an aggregate write error", func(t *testing.T) {
		docs := docstore.NewMemoryStore(10)
		require.NoError(t, docs.Put(ctx, Collection, "u1", []byte(`[1,2,3]`)))
		images := new(MockImageSource)
		images.On("ArtistImageURL", mock.Anything, monet).Return("", false)

		err := NewStore(docs, images).Increment(ctx, "u1", monet)
		assert.ErrorIs(t, err, ErrAggregateWrite)
	})
}

func TestStore_Top(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemoryStore(10)
	require.NoError(t, docs.Put(ctx, Collection, "u1", []byte(`{
		"c": {"count": 3},
		"a": 5,
		"b": {"count": 3, "imageURL": "b.jpg"},
		"d": 1,
		"bad": "nope"
	}`)))
	s := NewStore(docs, new(MockImageSource))

	top, err := s.Top(ctx, "u1", 3)
	require.NoError(t, err)
	assert.Equal(t, []Ranked{
		{URL: "a", Count: 5},
		{URL: "b", Count: 3, ImageURL: "b.jpg"},
		{URL: "c", Count: 3},
	}, top)

	all, err := s.Top(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := s.Top(ctx, "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_NullEntries(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemoryStore(10)
	require.NoError(t, docs.Put(ctx, Collection, "u1", []byte(`{"gone":null,"zero":0,"`+monet+`":null,"kept":2}`)))
	images := new(MockImageSource)
	images.On("ArtistImageURL", mock.Anything, monet).Return("m.jpg", true)
	s := NewStore(docs, images)

	counts, err := s.Counts(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]Aggregate{"kept": {Count: 2}}, counts)

	var agg Aggregate
	assert.ErrorIs(t, agg.UnmarshalJSON([]byte(" null ")), errNullAggregate)

	// Incrementing a null entry starts it from zero.
	require.NoError(t, s.Increment(ctx, "u1", monet))
	top, err := s.Top(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, []Ranked{
		{URL: "kept", Count: 2},
		{URL: monet, Count: 1, ImageURL: "m.jpg"},
	}, top)
}

type failingStore struct {
	docstore.Store
}

func (failingStore) Get(context.Context, string, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func TestStore_CountsError(t *testing.T) {
	s := NewStore(failingStore{Store: docstore.NewMemoryStore(1)}, new(MockImageSource))
	_, err := s.Counts(context.Background(), "u1")
	assert.Error(t, err)
}
