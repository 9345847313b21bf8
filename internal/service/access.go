package service

import (
	"context"

	"github.com/atinyakov/listkeeper/internal/common"
)

// AccessControl answers ownership and access questions for lists. It is
// built per unit of work over a LinkRepository bound to that transaction.
type AccessControl struct {
	links LinkRepository
}

// NewAccessControl constructs an AccessControl over links.
func NewAccessControl(links LinkRepository) *AccessControl {
	return &AccessControl{links: links}
}

// IsOwner reports whether userID owns listID. A missing link is false.
func (a *AccessControl) IsOwner(ctx context.Context, listID, userID int64) (bool, error) {
	return a.links.IsOwner(ctx, listID, userID)
}

// HasAccess reports whether userID is linked to listID at all.
func (a *AccessControl) HasAccess(ctx context.Context, listID, userID int64) (bool, error) {
	return a.links.HasAccess(ctx, listID, userID)
}

// Link associates userID with listID, as owner when isOwner is set.
func (a *AccessControl) Link(ctx context.Context, listID, userID int64, isOwner bool) error {
	return a.links.Link(ctx, listID, userID, isOwner)
}

// UnlinkAllForList removes every association of listID.
func (a *AccessControl) UnlinkAllForList(ctx context.Context, listID int64) error {
	return a.links.UnlinkAllForList(ctx, listID)
}

// RequireOwner returns common.ErrNotOwner unless userID owns listID.
func (a *AccessControl) RequireOwner(ctx context.Context, listID, userID int64) error {
	ok, err := a.IsOwner(ctx, listID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrNotOwner
	}
	return nil
}

// RequireAccess returns common.ErrNoAccess unless userID is linked to listID.
func (a *AccessControl) RequireAccess(ctx context.Context, listID, userID int64) error {
	ok, err := a.HasAccess(ctx, listID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrNoAccess
	}
	return nil
}
