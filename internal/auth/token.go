package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/atinyakov/listkeeper/internal/common"
	"github.com/atinyakov/listkeeper/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenValidity is how long an issued token stays valid.
const TokenValidity = 7 * 24 * time.Hour

// Claims is the payload of a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"uid"`
	Username  string `json:"username"`
	SessionID string `json:"sid,omitempty"`
}

// Identity returns the caller described by the claims.
func (c *Claims) Identity() models.Identity {
	return models.Identity{UserID: c.UserID, Username: c.Username}
}

// SessionLookup returns the session id currently stored for a user.
// It must return common.ErrUserNotFound when the user does not exist.
type SessionLookup interface {
	CurrentSessionID(ctx context.Context, userID int64) (string, error)
}

// TokenService signs and verifies HS256 session tokens.
type TokenService struct {
	secret   []byte
	now      func() time.Time
	sessions SessionLookup
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// WithRevocation enables the session id check in Verify.
func WithRevocation(sessions SessionLookup) TokenOption {
	return func(s *TokenService) { s.sessions = sessions }
}

// NewTokenService creates a TokenService signing with secret. The slice is
// copied and never exposed again.
func NewTokenService(secret []byte, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Revocable reports whether Verify checks the stored session id.
func (s *TokenService) Revocable() bool {
	return s.sessions != nil
}

// Issue returns a signed token for identity, valid for TokenValidity from now.
// sessionID is embedded as-is; pass the value just stored on the user record.
func (s *TokenService) Issue(identity models.Identity, sessionID string) (string, error) {
	issuedAt := time.Unix(s.now().Unix(), 0)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(identity.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenValidity)),
		},
		UserID:    identity.UserID,
		Username:  identity.Username,
		SessionID: sessionID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Parse checks the signature and the expiry of tokenString. It does not
// consult stored state; see Verify.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, common.ErrTokenBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, common.ErrTokenExpired
	default:
		return nil, common.ErrTokenMalformed
	}

	if claims.UserID <= 0 || claims.Username == "" {
		return nil, common.ErrTokenMalformed
	}
	return claims, nil
}

// Verify parses tokenString and, when revocation is enabled, confirms that
// the embedded session id is still the one stored for the user. A superseded
// session fails with common.ErrTokenRevoked.
func (s *TokenService) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if s.sessions == nil {
		return claims, nil
	}

	current, err := s.sessions.CurrentSessionID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, common.ErrTokenRevoked
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if claims.SessionID == "" || claims.SessionID != current {
		return nil, common.ErrTokenRevoked
	}
	return claims, nil
}
