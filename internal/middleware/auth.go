// Package middleware holds the HTTP middleware of the API: the bearer-token
// gate for protected routes and per-IP rate limiting for public ones.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"beyondnp-backend/internal/models"
	"beyondnp-backend/internal/response"
)

type contextKey struct{}

// TokenParser verifies a bearer token and returns its subject.
type TokenParser interface {
	Parse(token string) (bson.ObjectID, error)
}

// Authenticator resolves a token subject to an active, verified user.
type Authenticator interface {
	Authenticate(ctx context.Context, id bson.ObjectID) (*models.User, error)
}

// Auth rejects requests without a valid bearer token and stores the
// resolved user in the request context.
func Auth(tokens TokenParser, users Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				response.Fail(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			id, err := tokens.Parse(token)
			if err != nil {
				response.Fail(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			user, err := users.Authenticate(r.Context(), id)
			if err != nil {
				response.Error(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(contextKey{}).(*models.User)
	return user, ok && user != nil
}

// GetUserID returns the authenticated user's id, or the nil id outside the
// gate.
func GetUserID(ctx context.Context) bson.ObjectID {
	if user, ok := UserFromContext(ctx); ok {
		return user.ID
	}
	return bson.NilObjectID
}
