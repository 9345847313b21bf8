package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/listkeeper/internal/auth"
	"github.com/atinyakov/listkeeper/internal/common"
	"github.com/atinyakov/listkeeper/internal/models"
	"github.com/google/uuid"
)

// TokenType is reported to clients next to every issued token.
const TokenType = "Bearer"

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(identity models.Identity, sessionID string) (string, error)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string `json:"token"`
	Type  string `json:"type"`
}

// AccountService implements signup, login and profile maintenance.
type AccountService struct {
	store  Store
	tokens TokenIssuer
	// newSessionID generates the id stored on the user at each login.
	newSessionID func() string
}

// NewAccountService constructs an AccountService.
func NewAccountService(store Store, tokens TokenIssuer) *AccountService {
	return &AccountService{store: store, tokens: tokens, newSessionID: uuid.NewString}
}

// Signup registers a new user. A taken username or e-mail yields
// common.ErrUserExists.
func (s *AccountService) Signup(ctx context.Context, req models.SignupRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.Username == "" || req.Password == "" || !strings.Contains(req.Email, "@") {
		return common.ErrValidation
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Username
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.store.Do(ctx, func(ctx context.Context, repos Repositories) error {
		_, err := repos.Users.Create(ctx, &models.User{
			Username:     req.Username,
			Email:        req.Email,
			DisplayName:  req.DisplayName,
			PasswordHash: hash,
		})
		return err
	})
}

// Login checks the credentials, starts a new session and returns a token for
// it. Tokens of earlier sessions stop verifying once this commits.
func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	login := strings.TrimSpace(req.UsernameOrEmail)
	if login == "" || req.Password == "" {
		return nil, common.ErrInvalidCredentials
	}

	var token string
	err := s.store.Do(ctx, func(ctx context.Context, repos Repositories) error {
		user, err := repos.Users.FindByUsernameOrEmail(ctx, login)
		if err != nil {
			if errors.Is(err, common.ErrUserNotFound) {
				return common.ErrInvalidCredentials
			}
			return err
		}

		ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
		if err != nil {
			return fmt.Errorf("verify password: %w", err)
		}
		if !ok {
			return common.ErrInvalidCredentials
		}

		token, err = s.startSession(user, func(sid string) error {
			return repos.Users.SetSessionID(ctx, user.ID, sid)
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Type: TokenType}, nil
}

// GetUser returns the profile of userID.
func (s *AccountService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user *models.User
	err := s.store.Do(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		user, err = repos.Users.FindByID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateDisplayName changes the display name of userID.
func (s *AccountService) UpdateDisplayName(ctx context.Context, userID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return common.ErrValidation
	}
	return s.store.Do(ctx, func(ctx context.Context, repos Repositories) error {
		return repos.Users.UpdateDisplayName(ctx, userID, name)
	})
}

// UpdatePassword sets a new password, revokes every outstanding token of the
// user and returns a token for the new session.
func (s *AccountService) UpdatePassword(ctx context.Context, userID int64, password string) (*LoginResult, error) {
	if password == "" {
		return nil, common.ErrValidation
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var token string
	err = s.store.Do(ctx, func(ctx context.Context, repos Repositories) error {
		user, err := repos.Users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		token, err = s.startSession(user, func(sid string) error {
			return repos.Users.UpdatePassword(ctx, user.ID, hash, sid)
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Type: TokenType}, nil
}

// startSession stores a fresh session id through persist and signs a token
// carrying it.
func (s *AccountService) startSession(user *models.User, persist func(sid string) error) (string, error) {
	sid := s.newSessionID()
	if err := persist(sid); err != nil {
		return "", err
	}
	token, err := s.tokens.Issue(models.Identity{UserID: user.ID, Username: user.Username}, sid)
	if err != nil {
		return "", err
	}
	return token, nil
}
