package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	svcErr "github.com/amora-app/discovery/internal/errors"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Auth validates the Bearer token on each request and resolves the
// authenticated user id into the request context. Requests without a valid
// identity are rejected with 401; handlers behind this middleware can assume
// UserID returns a real id.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				svcErr.Respond(w, svcErr.ErrUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				svcErr.Respond(w, svcErr.ErrUnauthorized)
				return
			}

			userID, err := parseToken(parts[1], secret)
			if err != nil {
				svcErr.Respond(w, svcErr.ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID extracts the authenticated user id from the request context.
func UserID(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(userIDKey).(uint64)
	return id, ok
}

// WithUserID returns a context carrying the given user id. Test helper and
// internal-call escape hatch.
func WithUserID(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

func parseToken(tokenStr, secret string) (uint64, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, svcErr.ErrUnauthorized
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return 0, svcErr.ErrUnauthorized
	}

	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, svcErr.ErrUnauthorized
	}
	return userID, nil
}
