package auth

import (
	"context"
	"strings"

	"github.com/atinyakov/listkeeper/internal/common"
	"github.com/atinyakov/listkeeper/internal/models"
)

const bearerPrefix = "Bearer"

// BearerToken extracts the token from an Authorization header value. The
// prefix match is case-sensitive and the remainder is trimmed.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

// Verifier verifies a raw token string.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// Gate turns an Authorization header into an authenticated identity.
type Gate struct {
	tokens Verifier
}

// NewGate creates a Gate backed by tokens.
func NewGate(tokens Verifier) *Gate {
	return &Gate{tokens: tokens}
}

// Authenticate verifies the bearer token carried by header. A missing or
// non-Bearer header fails with common.ErrTokenMalformed.
func (g *Gate) Authenticate(ctx context.Context, header string) (models.Identity, error) {
	token, ok := BearerToken(header)
	if !ok {
		return models.Identity{}, common.ErrTokenMalformed
	}
	claims, err := g.tokens.Verify(ctx, token)
	if err != nil {
		return models.Identity{}, err
	}
	return claims.Identity(), nil
}
