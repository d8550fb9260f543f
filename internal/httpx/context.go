package httpx

import (
	"context"
	"net/http"

	"artlog/internal/logging"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserIDFrom retrieves the authenticated user id from the request context.
func UserIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequestIDFrom shares its storage with logging so that logging.Ctx picks
// the id up.
func RequestIDFrom(r *http.Request) string {
	return logging.RequestID(r.Context())
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return logging.WithRequestID(ctx, requestID)
}
