// Package response writes the JSON envelope shared by every endpoint and
// maps domain errors onto HTTP statuses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/listkeeper/internal/common"
	"go.uber.org/zap"
)

// Messages returned to clients.
const (
	MsgOK            = "ok"
	MsgSignupOK      = "signed up successfully"
	MsgLoginOK       = "logged in successfully"
	MsgGetUserOK     = "found user successfully"
	MsgInvalidToken  = "invalid token, please login again"
	MsgNotOwner      = "only the owner can modify this list"
	MsgNoAccess      = "you do not have access to this list"
	MsgUserNotFound  = "user not found"
	MsgItemNotInList = "item does not belong to this list"
	MsgListNotFound  = "list not found"
	MsgCreateList    = "can not create list"
	MsgSignupFailed  = "error when signing up, please try again"
	MsgLoginFailed   = "wrong username or password, please try again"
	MsgInvalid       = "invalid request"
	MsgInternal      = "internal error"
)

// Envelope is the body of every response.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// JSON writes status and the envelope {message, data}.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Message: message, Data: data})
}

// Status returns the HTTP status and client message for err.
func Status(err error) (int, string) {
	switch {
	case common.IsTokenError(err):
		return http.StatusUnauthorized, MsgInvalidToken
	case errors.Is(err, common.ErrNotOwner):
		return http.StatusForbidden, MsgNotOwner
	case errors.Is(err, common.ErrNoAccess):
		return http.StatusForbidden, MsgNoAccess
	case errors.Is(err, common.ErrUserNotFound):
		return http.StatusNotFound, MsgUserNotFound
	case errors.Is(err, common.ErrItemNotOwnedByList):
		return http.StatusNotFound, MsgItemNotInList
	case errors.Is(err, common.ErrListNotFound):
		return http.StatusNotFound, MsgListNotFound
	case errors.Is(err, common.ErrListCreateFailed), errors.Is(err, common.ErrOwnerLinkFailed):
		return http.StatusInternalServerError, MsgCreateList
	case errors.Is(err, common.ErrUserExists):
		return http.StatusConflict, MsgSignupFailed
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusBadRequest, MsgLoginFailed
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, MsgInvalid
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}

// Error writes the envelope for err. Server-side failures are logged with
// their detail; the client only sees the generic message.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status, msg := Status(err)
	if status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.Error(err),
		)
	}
	JSON(w, status, msg, "")
}
