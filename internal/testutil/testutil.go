// Package testutil holds request and token helpers shared by handler tests.
package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"artlog/internal/httpx"
	"artlog/internal/platform/crypto"
)

const TestSecret = "test-secret"

// TestToken mints a one-hour token for userID signed with TestSecret.
func TestToken(t testing.TB, userID string) string {
	t.Helper()
	token, err := crypto.GenerateToken(TestSecret, userID, time.Hour)
	require.NoError(t, err)
	return token
}

// NewRequest builds a request with an optional JSON body.
func NewRequest(t testing.TB, method, path string, body any) *http.Request {
	t.Helper()
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	b, err := json.Marshal(body)
	require.NoError(t, err)
	r := httptest.NewRequest(method, path, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// AsUser puts userID into the request context the way AuthMiddleware would.
func AsUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(httpx.ContextWithUser(r.Context(), userID))
}

type Response struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

// Record decodes the recorded JSON envelope.
func Record(t testing.TB, w *httptest.ResponseRecorder) Response {
	t.Helper()
	result := w.Result()
	defer result.Body.Close()

	raw, err := io.ReadAll(result.Body)
	require.NoError(t, err)

	var body map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body), "body: %s", raw)
	}
	return Response{Code: result.StatusCode, Header: result.Header, Body: body}
}

// Data returns the envelope's data object.
func (r Response) Data() map[string]any {
	data, _ := r.Body["data"].(map[string]any)
	return data
}

// ErrorCode returns error.code from an error envelope.
func (r Response) ErrorCode() string {
	e, _ := r.Body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}
