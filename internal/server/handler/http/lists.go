package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/atinyakov/listkeeper/internal/common"
	"github.com/atinyakov/listkeeper/internal/middleware"
	"github.com/atinyakov/listkeeper/internal/models"
	"github.com/atinyakov/listkeeper/internal/server/response"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ListService defines the list operations required by ListHandler.
type ListService interface {
	CreateList(ctx context.Context, identity models.Identity, req models.ListRequest) (*models.List, error)
	DeleteList(ctx context.Context, listID, userID int64) error
	AddItem(ctx context.Context, listID, userID int64, req models.ItemRequest) (*models.Item, error)
	UpdateItem(ctx context.Context, listID, userID, itemID int64, req models.ItemRequest) error
	DeleteItem(ctx context.Context, listID, userID, itemID int64) error
	GetListsForUser(ctx context.Context, userID int64) ([]models.List, error)
	GetList(ctx context.Context, listID, userID int64) (*models.ListWithItems, error)
}

// ListHandler handles list and item requests. All routes require an
// identity placed in the context by middleware.BearerAuth.
type ListHandler struct {
	ListService ListService
	Logger      *zap.Logger
}

// pathID parses the chi URL parameter name as a positive id.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrValidation
	}
	return id, nil
}

// CreateList handles POST /api/lists.
func (h *ListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, common.ErrTokenMalformed)
		return
	}

	var req models.ListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusBadRequest, response.MsgInvalid, "")
		return
	}

	list, err := h.ListService.CreateList(r.Context(), identity, req)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.MsgOK, list)
}

// GetLists handles GET /api/lists.
func (h *ListHandler) GetLists(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, common.ErrTokenMalformed)
		return
	}

	lists, err := h.ListService.GetListsForUser(r.Context(), identity.UserID)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MsgOK, lists)
}

// GetList handles GET /api/lists/{listID}.
func (h *ListHandler) GetList(w http.ResponseWriter, r *http.Request) {
	identity, listID, ok := h.listRequest(w, r)
	if !ok {
		return
	}

	list, err := h.ListService.GetList(r.Context(), listID, identity.UserID)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MsgOK, list)
}

// DeleteList handles DELETE /api/lists/{listID}.
func (h *ListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	identity, listID, ok := h.listRequest(w, r)
	if !ok {
		return
	}

	if err := h.ListService.DeleteList(r.Context(), listID, identity.UserID); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MsgOK, "")
}

// AddItem handles POST /api/lists/{listID}/items.
func (h *ListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	identity, listID, ok := h.listRequest(w, r)
	if !ok {
		return
	}

	var req models.ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusBadRequest, response.MsgInvalid, "")
		return
	}

	item, err := h.ListService.AddItem(r.Context(), listID, identity.UserID, req)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.MsgOK, item)
}

// UpdateItem handles PUT /api/lists/{listID}/items/{itemID}.
func (h *ListHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	identity, listID, ok := h.listRequest(w, r)
	if !ok {
		return
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	var req models.ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusBadRequest, response.MsgInvalid, "")
		return
	}

	if err := h.ListService.UpdateItem(r.Context(), listID, identity.UserID, itemID, req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MsgOK, "")
}

// DeleteItem handles DELETE /api/lists/{listID}/items/{itemID}.
func (h *ListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	identity, listID, ok := h.listRequest(w, r)
	if !ok {
		return
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	if err := h.ListService.DeleteItem(r.Context(), listID, identity.UserID, itemID); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MsgOK, "")
}

// listRequest resolves the caller and the {listID} parameter, writing the
// error response itself when either is missing.
func (h *ListHandler) listRequest(w http.ResponseWriter, r *http.Request) (models.Identity, int64, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, common.ErrTokenMalformed)
		return models.Identity{}, 0, false
	}
	listID, err := pathID(r, "listID")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return models.Identity{}, 0, false
	}
	return identity, listID, true
}
