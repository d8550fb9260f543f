package profile

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artlog/internal/artist"
	"artlog/internal/docstore"
	"artlog/internal/profile/mocks"
	"artlog/internal/review"
	"artlog/internal/testutil"
)

func newHandler(t *testing.T) (*HTTPHandler, *docstore.MemoryStore, *mocks.MockReviewLister, *mocks.MockArtistRanker) {
	t.Helper()
	ctrl := gomock.NewController(t)
	docs := docstore.NewMemoryStore(10)
	reviews := mocks.NewMockReviewLister(ctrl)
	artists := mocks.NewMockArtistRanker(ctrl)
	return NewHTTPHandler(NewService(docs, reviews, artists)), docs, reviews, artists
}

func TestHTTPHandler_GetOwnProfile(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		h, _, _, _ := newHandler(t)
		w := httptest.NewRecorder()
		h.GetOwnProfile(w, httptest.NewRequest(http.MethodGet, "/v1/me/profile", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		h, docs, reviews, artists := newHandler(t)
		require.NoError(t, docs.Put(t.Context(), Collection, "u1", []byte(`{"username":"ada","bio":"hi"}`)))

		reviews.EXPECT().ListByUser(gomock.Any(), "u1").Return([]review.Review{{ID: "r1"}, {ID: "r2"}}, nil)
		artists.EXPECT().Counts(gomock.Any(), "u1").Return(map[string]artist.Aggregate{"q1": {Count: 2}}, nil)
		artists.EXPECT().Top(gomock.Any(), "u1", 5).Return([]artist.Ranked{{URL: "q1", Count: 2}}, nil)

		w := httptest.NewRecorder()
		h.GetOwnProfile(w, testutil.AsUser(httptest.NewRequest(http.MethodGet, "/v1/me/profile", nil), "u1"))

		resp := testutil.Record(t, w)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "ada", resp.Data()["username"])
		stats := resp.Data()["stats"].(map[string]any)
		assert.Equal(t, float64(2), stats["reviewsCount"])
		assert.Equal(t, float64(1), stats["artistsCount"])
	})

	t.Run("stats failure", func(t *testing.T) {
		h, _, reviews, _ := newHandler(t)
		reviews.EXPECT().ListByUser(gomock.Any(), "u1").Return(nil, errors.New("db error"))

		w := httptest.NewRecorder()
		h.GetOwnProfile(w, testutil.AsUser(httptest.NewRequest(http.MethodGet, "/v1/me/profile", nil), "u1"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_GetPublicProfile_NotFound(t *testing.T) {
	h, _, _, _ := newHandler(t)

	r := httptest.NewRequest(http.MethodGet, "/v1/users/ghost/profile", nil)
	r.SetPathValue("id", "ghost")
	w := httptest.NewRecorder()
	h.GetPublicProfile(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHTTPHandler_UpdateProfile(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		h, _, _, _ := newHandler(t)
		w := httptest.NewRecorder()
		r := testutil.NewRequest(t, http.MethodPatch, "/v1/me/profile", map[string]any{"username": " ab "})
		h.UpdateProfile(w, testutil.AsUser(r, "u1"))

		resp := testutil.Record(t, w)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "VALIDATION_ERROR", resp.ErrorCode())
	})

	t.Run("taken", func(t *testing.T) {
		h, docs, _, _ := newHandler(t)
		require.NoError(t, docs.Put(t.Context(), Collection, "u2", []byte(`{"username":"grace"}`)))

		w := httptest.NewRecorder()
		r := testutil.NewRequest(t, http.MethodPatch, "/v1/me/profile", map[string]any{"username": "grace"})
		h.UpdateProfile(w, testutil.AsUser(r, "u1"))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		h, _, _, _ := newHandler(t)
		w := httptest.NewRecorder()
		r := testutil.NewRequest(t, http.MethodPatch, "/v1/me/profile", map[string]any{"website": "x"})
		h.UpdateProfile(w, testutil.AsUser(r, "u1"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
