package service

import (
	"context"

	"github.com/atinyakov/listkeeper/internal/models"
)

type mockUserRepo struct {
	CreateFunc                func(ctx context.Context, u *models.User) (*models.User, error)
	FindByIDFunc              func(ctx context.Context, id int64) (*models.User, error)
	FindByUsernameFunc        func(ctx context.Context, username string) (*models.User, error)
	FindByUsernameOrEmailFunc func(ctx context.Context, login string) (*models.User, error)
	SetSessionIDFunc          func(ctx context.Context, id int64, sessionID string) error
	UpdateDisplayNameFunc     func(ctx context.Context, id int64, displayName string) error
	UpdatePasswordFunc        func(ctx context.Context, id int64, passwordHash, sessionID string) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	return m.CreateFunc(ctx, u)
}
func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return m.FindByIDFunc(ctx, id)
}
func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.FindByUsernameFunc(ctx, username)
}
func (m *mockUserRepo) FindByUsernameOrEmail(ctx context.Context, login string) (*models.User, error) {
	return m.FindByUsernameOrEmailFunc(ctx, login)
}
func (m *mockUserRepo) SetSessionID(ctx context.Context, id int64, sessionID string) error {
	return m.SetSessionIDFunc(ctx, id, sessionID)
}
func (m *mockUserRepo) UpdateDisplayName(ctx context.Context, id int64, displayName string) error {
	return m.UpdateDisplayNameFunc(ctx, id, displayName)
}
func (m *mockUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash, sessionID string) error {
	return m.UpdatePasswordFunc(ctx, id, passwordHash, sessionID)
}

type mockListRepo struct {
	CreateFunc      func(ctx context.Context, req models.ListRequest) (*models.List, error)
	FindByIDFunc    func(ctx context.Context, id int64) (*models.List, error)
	FindForUserFunc func(ctx context.Context, userID int64) ([]models.List, error)
	DeleteFunc      func(ctx context.Context, id int64) error
}

func (m *mockListRepo) Create(ctx context.Context, req models.ListRequest) (*models.List, error) {
	return m.CreateFunc(ctx, req)
}
func (m *mockListRepo) FindByID(ctx context.Context, id int64) (*models.List, error) {
	return m.FindByIDFunc(ctx, id)
}
func (m *mockListRepo) FindForUser(ctx context.Context, userID int64) ([]models.List, error) {
	return m.FindForUserFunc(ctx, userID)
}
func (m *mockListRepo) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

type mockItemRepo struct {
	CreateFunc        func(ctx context.Context, listID int64, req models.ItemRequest) (*models.Item, error)
	FindForListFunc   func(ctx context.Context, listID int64) ([]models.Item, error)
	OwnedByListFunc   func(ctx context.Context, itemID, listID int64) (bool, error)
	UpdateFunc        func(ctx context.Context, itemID int64, req models.ItemRequest) error
	DeleteFunc        func(ctx context.Context, itemID int64) error
	DeleteForListFunc func(ctx context.Context, listID int64) error
}

func (m *mockItemRepo) Create(ctx context.Context, listID int64, req models.ItemRequest) (*models.Item, error) {
	return m.CreateFunc(ctx, listID, req)
}
func (m *mockItemRepo) FindForList(ctx context.Context, listID int64) ([]models.Item, error) {
	return m.FindForListFunc(ctx, listID)
}
func (m *mockItemRepo) OwnedByList(ctx context.Context, itemID, listID int64) (bool, error) {
	return m.OwnedByListFunc(ctx, itemID, listID)
}
func (m *mockItemRepo) Update(ctx context.Context, itemID int64, req models.ItemRequest) error {
	return m.UpdateFunc(ctx, itemID, req)
}
func (m *mockItemRepo) Delete(ctx context.Context, itemID int64) error {
	return m.DeleteFunc(ctx, itemID)
}
func (m *mockItemRepo) DeleteForList(ctx context.Context, listID int64) error {
	return m.DeleteForListFunc(ctx, listID)
}

type mockLinkRepo struct {
	IsOwnerFunc          func(ctx context.Context, listID, userID int64) (bool, error)
	HasAccessFunc        func(ctx context.Context, listID, userID int64) (bool, error)
	LinkFunc             func(ctx context.Context, listID, userID int64, isOwner bool) error
	UnlinkAllForListFunc func(ctx context.Context, listID int64) error
}

func (m *mockLinkRepo) IsOwner(ctx context.Context, listID, userID int64) (bool, error) {
	return m.IsOwnerFunc(ctx, listID, userID)
}
func (m *mockLinkRepo) HasAccess(ctx context.Context, listID, userID int64) (bool, error) {
	return m.HasAccessFunc(ctx, listID, userID)
}
func (m *mockLinkRepo) Link(ctx context.Context, listID, userID int64, isOwner bool) error {
	return m.LinkFunc(ctx, listID, userID, isOwner)
}
func (m *mockLinkRepo) UnlinkAllForList(ctx context.Context, listID int64) error {
	return m.UnlinkAllForListFunc(ctx, listID)
}

// passthroughStore runs fn directly against fixed repositories.
type passthroughStore struct {
	repos Repositories
	calls int
}

func (s *passthroughStore) Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	s.calls++
	return fn(ctx, s.repos)
}
