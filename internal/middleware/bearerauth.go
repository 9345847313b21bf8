package middleware

import (
	"context"
	"net/http"

	"github.com/atinyakov/listkeeper/internal/models"
	"github.com/atinyakov/listkeeper/internal/server/response"
	"go.uber.org/zap"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Authenticator resolves an Authorization header to the calling user.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (models.Identity, error)
}

// BearerAuth rejects requests without a valid bearer token. Token failures
// get a 401 envelope; failures of the revocation lookup itself are logged and
// answered with 500. On success the identity is stored in the request
// context, see IdentityFromContext.
func BearerAuth(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := auth.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				response.Error(w, r, logger, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext extracts the authenticated caller stored by BearerAuth.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}
