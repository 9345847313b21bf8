// Package models defines the core data structures for users, lists and items.
package models

import "time"

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// Email is the unique e-mail address, also accepted at login.
	Email string `json:"email"`
	// DisplayName is the name shown to other users.
	DisplayName string `json:"display_name"`
	// PasswordHash is the hashed password of the user.
	PasswordHash string `json:"-"`
	// SessionID identifies the only login session whose tokens are accepted.
	SessionID string `json:"-"`
}

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
}

// List is a named collection of items.
type List struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	DateCreated time.Time `json:"date_created"`
}

// ListWithItems is a list together with all of its items.
type ListWithItems struct {
	List
	Items []Item `json:"items"`
}

// Item belongs to exactly one list.
type Item struct {
	ID          int64  `json:"id"`
	ListID      int64  `json:"list_id"`
	Description string `json:"description"`
	Finished    bool   `json:"finished"`
}

// UserListLink associates a user with a list. IsOwner marks the creator.
type UserListLink struct {
	ID      int64 `json:"id"`
	UserID  int64 `json:"user_id"`
	ListID  int64 `json:"list_id"`
	IsOwner bool  `json:"is_owner"`
}

// SignupRequest carries the information needed to create an account.
type SignupRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// LoginRequest carries the credentials for a login attempt.
type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

// ListRequest holds the user-provided fields of a list.
type ListRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// ItemRequest holds the user-provided fields of an item.
type ItemRequest struct {
	Description string `json:"description"`
	Finished    bool   `json:"finished"`
}

// DisplayNameRequest updates the caller's display name.
type DisplayNameRequest struct {
	DisplayName string `json:"display_name"`
}

// PasswordRequest updates the caller's password.
type PasswordRequest struct {
	Password string `json:"password"`
}
