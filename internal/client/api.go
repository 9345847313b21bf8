package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/atinyakov/listkeeper/internal/models"
)

// APIError is a non-2xx response. Message is the server's envelope message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// LoginResult is the data of a successful login or password change.
type LoginResult struct {
	Token string `json:"token"`
	Type  string `json:"type"`
}

// API calls the ListKeeper HTTP endpoints. The token is read from the
// session on every call.
type API struct {
	baseURL string
	http    *http.Client
	session *Session
}

// NewAPI creates an API for baseURL. A nil client gets a default with a
// 10 second timeout.
func NewAPI(baseURL string, httpClient *http.Client, session *Session) *API {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &API{baseURL: baseURL, http: httpClient, session: session}
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do sends body as JSON and decodes the envelope's data into out when out is
// non-nil.
func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.session != nil {
		if _, token := a.session.Current(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// Signup registers a new account.
func (a *API) Signup(ctx context.Context, req models.SignupRequest) error {
	return a.do(ctx, http.MethodPost, "/api/signup", req, nil)
}

// Login authenticates and stores the returned token in the session.
func (a *API) Login(ctx context.Context, usernameOrEmail, password string) error {
	var res LoginResult
	err := a.do(ctx, http.MethodPost, "/api/login",
		models.LoginRequest{UsernameOrEmail: usernameOrEmail, Password: password}, &res)
	if err != nil {
		return err
	}
	return a.session.Set(usernameOrEmail, res.Token)
}

// GetUser returns the caller's profile.
func (a *API) GetUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := a.do(ctx, http.MethodGet, "/api/users", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateDisplayName changes the caller's display name.
func (a *API) UpdateDisplayName(ctx context.Context, name string) error {
	return a.do(ctx, http.MethodPut, "/api/users/name", models.DisplayNameRequest{DisplayName: name}, nil)
}

// UpdatePassword changes the password and stores the replacement token.
func (a *API) UpdatePassword(ctx context.Context, password string) error {
	var res LoginResult
	if err := a.do(ctx, http.MethodPut, "/api/users/password", models.PasswordRequest{Password: password}, &res); err != nil {
		return err
	}
	username, _ := a.session.Current()
	return a.session.Set(username, res.Token)
}

// CreateList creates a list owned by the caller.
func (a *API) CreateList(ctx context.Context, req models.ListRequest) (*models.List, error) {
	var l models.List
	if err := a.do(ctx, http.MethodPost, "/api/lists", req, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// GetLists returns every list the caller can access.
func (a *API) GetLists(ctx context.Context) ([]models.List, error) {
	var lists []models.List
	if err := a.do(ctx, http.MethodGet, "/api/lists", nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// GetList returns a list with its items.
func (a *API) GetList(ctx context.Context, listID int64) (*models.ListWithItems, error) {
	var l models.ListWithItems
	if err := a.do(ctx, http.MethodGet, fmt.Sprintf("/api/lists/%d", listID), nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteList deletes a list owned by the caller.
func (a *API) DeleteList(ctx context.Context, listID int64) error {
	return a.do(ctx, http.MethodDelete, fmt.Sprintf("/api/lists/%d", listID), nil, nil)
}

// AddItem adds an item to a list.
func (a *API) AddItem(ctx context.Context, listID int64, req models.ItemRequest) (*models.Item, error) {
	var it models.Item
	if err := a.do(ctx, http.MethodPost, fmt.Sprintf("/api/lists/%d/items", listID), req, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// UpdateItem replaces an item's description and finished flag.
func (a *API) UpdateItem(ctx context.Context, listID, itemID int64, req models.ItemRequest) error {
	return a.do(ctx, http.MethodPut, fmt.Sprintf("/api/lists/%d/items/%d", listID, itemID), req, nil)
}

// DeleteItem removes an item from a list.
func (a *API) DeleteItem(ctx context.Context, listID, itemID int64) error {
	return a.do(ctx, http.MethodDelete, fmt.Sprintf("/api/lists/%d/items/%d", listID, itemID), nil, nil)
}
