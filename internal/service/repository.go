// Package service provides the account, access-control and list business
// logic, delegating persistence to repository interfaces.
package service

import (
	"context"

	"github.com/atinyakov/listkeeper/internal/models"
)

// UserRepository defines the user directory operations.
// Lookups return common.ErrUserNotFound when no row matches.
type UserRepository interface {
	// Create inserts u and returns the stored row. A duplicate username or
	// e-mail yields common.ErrUserExists.
	Create(ctx context.Context, u *models.User) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// FindByUsernameOrEmail matches login against both unique columns.
	FindByUsernameOrEmail(ctx context.Context, login string) (*models.User, error)
	// SetSessionID overwrites the stored session id, revoking older tokens.
	SetSessionID(ctx context.Context, id int64, sessionID string) error
	UpdateDisplayName(ctx context.Context, id int64, displayName string) error
	// UpdatePassword replaces the hash and the session id together.
	UpdatePassword(ctx context.Context, id int64, passwordHash, sessionID string) error
}

// ListRepository defines persistence of list rows.
type ListRepository interface {
	// Create inserts a list dated today and returns the stored row.
	Create(ctx context.Context, req models.ListRequest) (*models.List, error)
	// FindByID returns common.ErrListNotFound when the list does not exist.
	FindByID(ctx context.Context, id int64) (*models.List, error)
	// FindForUser returns every list linked to userID.
	FindForUser(ctx context.Context, userID int64) ([]models.List, error)
	Delete(ctx context.Context, id int64) error
}

// ItemRepository defines persistence of items.
type ItemRepository interface {
	Create(ctx context.Context, listID int64, req models.ItemRequest) (*models.Item, error)
	FindForList(ctx context.Context, listID int64) ([]models.Item, error)
	// OwnedByList reports whether itemID exists and belongs to listID.
	OwnedByList(ctx context.Context, itemID, listID int64) (bool, error)
	Update(ctx context.Context, itemID int64, req models.ItemRequest) error
	Delete(ctx context.Context, itemID int64) error
	DeleteForList(ctx context.Context, listID int64) error
}

// LinkRepository defines persistence of user/list associations.
type LinkRepository interface {
	IsOwner(ctx context.Context, listID, userID int64) (bool, error)
	HasAccess(ctx context.Context, listID, userID int64) (bool, error)
	// Link returns common.ErrAlreadyLinked if the pair exists.
	Link(ctx context.Context, listID, userID int64, isOwner bool) error
	UnlinkAllForList(ctx context.Context, listID int64) error
}

// Repositories groups repositories bound to the same transaction.
type Repositories struct {
	Users UserRepository
	Lists ListRepository
	Items ItemRepository
	Links LinkRepository
}

// Store runs units of work. Do calls fn with repositories bound to a single
// transaction that is committed when fn returns nil and rolled back otherwise.
type Store interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
