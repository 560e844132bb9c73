package commons

import (
	"context"
	"net/http"
	"strconv"

	apperrors "costbook/internal/errors"
)

type contextKey string

const userIDKey contextKey = "userID"

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// RequireUser extracts the authenticated user id from the X-User-ID header.
// Authentication itself lives in front of this service; by the time a request
// reaches these handlers the session layer has already resolved the identity.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-ID")
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
				Error:   "UNAUTHORIZED",
				Message: "missing or invalid user identity",
			})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// MustUserID is for handlers mounted behind RequireUser.
func MustUserID(ctx context.Context) int64 {
	id, ok := UserIDFromContext(ctx)
	if !ok {
		panic(apperrors.NewInternalError("user id missing from request context", nil))
	}
	return id
}
