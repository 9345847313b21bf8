// Package http provides the HTTP handlers and router of the ListKeeper API.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atinyakov/listkeeper/internal/common"
	"github.com/atinyakov/listkeeper/internal/middleware"
	"github.com/atinyakov/listkeeper/internal/models"
	"github.com/atinyakov/listkeeper/internal/server/response"
	"github.com/atinyakov/listkeeper/internal/service"
	"go.uber.org/zap"
)

// AccountService defines the account operations required by AccountHandler.
type AccountService interface {
	Signup(ctx context.Context, req models.SignupRequest) error
	Login(ctx context.Context, req models.LoginRequest) (*service.LoginResult, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	UpdateDisplayName(ctx context.Context, userID int64, name string) error
	UpdatePassword(ctx context.Context, userID int64, password string) (*service.LoginResult, error)
}

// AccountHandler handles signup, login and profile requests.
type AccountHandler struct {
	AccountService AccountService
	Logger         *zap.Logger
}

// Signup handles POST /api/signup.
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusBadRequest, response.MsgInvalid, "")
		return
	}

	if err := h.AccountService.Signup(r.Context(), req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MsgSignupOK, "")
}

// Login handles POST /api/login and returns {token, type} on success.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusBadRequest, response.MsgInvalid, "")
		return
	}

	res, err := h.AccountService.Login(r.Context(), req)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MsgLoginOK, res)
}

// GetUser handles GET /api/users and returns the caller's profile.
func (h *AccountHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, common.ErrTokenMalformed)
		return
	}

	user, err := h.AccountService.GetUser(r.Context(), identity.UserID)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MsgGetUserOK, user)
}

// UpdateDisplayName handles PUT /api/users/name.
func (h *AccountHandler) UpdateDisplayName(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, common.ErrTokenMalformed)
		return
	}

	var req models.DisplayNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusBadRequest, response.MsgInvalid, "")
		return
	}

	if err := h.AccountService.UpdateDisplayName(r.Context(), identity.UserID, req.DisplayName); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MsgOK, "")
}

// UpdatePassword handles PUT /api/users/password. Every earlier token of the
// caller stops working; the response carries a replacement.
func (h *AccountHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, common.ErrTokenMalformed)
		return
	}

	var req models.PasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusBadRequest, response.MsgInvalid, "")
		return
	}

	res, err := h.AccountService.UpdatePassword(r.Context(), identity.UserID, req.Password)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MsgOK, res)
}
