// Package common defines sentinel errors shared by the auth, service and
// transport layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Token errors. All of them surface to clients as the same 401.
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenRevoked      = errors.New("token revoked")

	// Authorization errors.
	ErrNotOwner = errors.New("not the owner of the list")
	ErrNoAccess = errors.New("no access to the list")

	// Referential errors.
	ErrUserNotFound       = errors.New("user not found")
	ErrListNotFound       = errors.New("list not found")
	ErrItemNotOwnedByList = errors.New("item does not belong to list")

	// Link errors.
	ErrAlreadyLinked = errors.New("user already linked to list")

	// List creation steps.
	ErrListCreateFailed = errors.New("list create failed")
	ErrOwnerLinkFailed  = errors.New("owner link failed")

	// Account errors.
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid login/password")
	ErrValidation         = errors.New("validation error")
)

// IsTokenError reports whether err is one of the authentication failures.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenBadSignature) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenRevoked)
}
