package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/atinyakov/listkeeper/internal/common"
	"github.com/atinyakov/listkeeper/internal/models"
)

// ListService implements list and item operations. Every operation runs the
// access check and the write it guards inside a single Store unit of work.
type ListService struct {
	store Store
}

// NewListService constructs a ListService over store.
func NewListService(store Store) *ListService {
	return &ListService{store: store}
}

// CreateList creates a list owned by the caller. The list row and the owner
// link are written together or not at all.
func (s *ListService) CreateList(ctx context.Context, identity models.Identity, req models.ListRequest) (*models.List, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, common.ErrValidation
	}

	var created *models.List
	err := s.store.Do(ctx, func(ctx context.Context, repos Repositories) error {
		user, err := repos.Users.FindByUsername(ctx, identity.Username)
		if err != nil {
			return err
		}

		list, err := repos.Lists.Create(ctx, req)
		if err != nil {
			return fmt.Errorf("%w: %w", common.ErrListCreateFailed, err)
		}

		if err := NewAccessControl(repos.Links).Link(ctx, list.ID, user.ID, true); err != nil {
			return fmt.Errorf("%w: %w", common.ErrOwnerLinkFailed, err)
		}

		created = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteList removes a list with its items and links. Only the owner may
// delete; a missing list is reported as common.ErrNotOwner.
func (s *ListService) DeleteList(ctx context.Context, listID, userID int64) error {
	return s.store.Do(ctx, func(ctx context.Context, repos Repositories) error {
		access := NewAccessControl(repos.Links)
		if err := access.RequireOwner(ctx, listID, userID); err != nil {
			return err
		}
		if err := repos.Items.DeleteForList(ctx, listID); err != nil {
			return err
		}
		if err := access.UnlinkAllForList(ctx, listID); err != nil {
			return err
		}
		return repos.Lists.Delete(ctx, listID)
	})
}

// AddItem appends an item to a list the caller has access to.
func (s *ListService) AddItem(ctx context.Context, listID, userID int64, req models.ItemRequest) (*models.Item, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, common.ErrValidation
	}

	var item *models.Item
	err := s.store.Do(ctx, func(ctx context.Context, repos Repositories) error {
		if err := NewAccessControl(repos.Links).RequireAccess(ctx, listID, userID); err != nil {
			return err
		}
		var err error
		item, err = repos.Items.Create(ctx, listID, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem replaces the fields of an item. The item must belong to listID.
func (s *ListService) UpdateItem(ctx context.Context, listID, userID, itemID int64, req models.ItemRequest) error {
	if strings.TrimSpace(req.Description) == "" {
		return common.ErrValidation
	}

	return s.store.Do(ctx, func(ctx context.Context, repos Repositories) error {
		if err := requireItemInList(ctx, repos, listID, userID, itemID); err != nil {
			return err
		}
		return repos.Items.Update(ctx, itemID, req)
	})
}

// DeleteItem removes an item. The item must belong to listID.
func (s *ListService) DeleteItem(ctx context.Context, listID, userID, itemID int64) error {
	return s.store.Do(ctx, func(ctx context.Context, repos Repositories) error {
		if err := requireItemInList(ctx, repos, listID, userID, itemID); err != nil {
			return err
		}
		return repos.Items.Delete(ctx, itemID)
	})
}

// requireItemInList checks access to listID before looking at the item, so
// an item id never leaks across lists.
func requireItemInList(ctx context.Context, repos Repositories, listID, userID, itemID int64) error {
	if err := NewAccessControl(repos.Links).RequireAccess(ctx, listID, userID); err != nil {
		return err
	}
	owned, err := repos.Items.OwnedByList(ctx, itemID, listID)
	if err != nil {
		return err
	}
	if !owned {
		return common.ErrItemNotOwnedByList
	}
	return nil
}

// GetListsForUser returns every list linked to userID.
func (s *ListService) GetListsForUser(ctx context.Context, userID int64) ([]models.List, error) {
	var lists []models.List
	err := s.store.Do(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		lists, err = repos.Lists.FindForUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// GetList returns a list with its items.
func (s *ListService) GetList(ctx context.Context, listID, userID int64) (*models.ListWithItems, error) {
	var out *models.ListWithItems
	err := s.store.Do(ctx, func(ctx context.Context, repos Repositories) error {
		if err := NewAccessControl(repos.Links).RequireAccess(ctx, listID, userID); err != nil {
			return err
		}
		list, err := repos.Lists.FindByID(ctx, listID)
		if err != nil {
			return err
		}
		items, err := repos.Items.FindForList(ctx, listID)
		if err != nil {
			return err
		}
		out = &models.ListWithItems{List: *list, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
