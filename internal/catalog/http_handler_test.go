package catalog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPHandler_GetByID(t *testing.T) {
	handler := NewHTTPHandler(testIndex())

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/catalog/objects/1", nil)
		r.SetPathValue("id", "1")

		handler.GetByID(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Wheat Field with Cypresses")
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/catalog/objects/404", nil)
		r.SetPathValue("id", "404")

		handler.GetByID(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Stats(t *testing.T) {
	handler := NewHTTPHandler(testIndex())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/v1/catalog/stats", nil)
	handler.Stats(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":4`)
}
