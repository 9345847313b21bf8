// Package client implements the ListKeeper command-line client: an API
// wrapper, a session file holding the bearer token, and an interactive shell.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultSessionFile is used when no path is given on the command line.
const DefaultSessionFile = ".listkeeper-session.json"

// Session is the locally persisted login state.
type Session struct {
	Username string `json:"username"`
	Token    string `json:"token"`

	mu   sync.Mutex
	path string
}

// LoadSession reads the session stored at path. A missing file yields an
// empty, logged-out session bound to path.
func LoadSession(path string) (*Session, error) {
	s := &Session{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return s, nil
}

// Set replaces the stored credentials and persists them.
func (s *Session) Set(username, token string) error {
	s.mu.Lock()
	s.Username, s.Token = username, token
	s.mu.Unlock()
	return s.save()
}

// Clear forgets the token and persists the empty session.
func (s *Session) Clear() error {
	return s.Set("", "")
}

// Current returns the stored username and token.
func (s *Session) Current() (username, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Username, s.Token
}

// LoggedIn reports whether a token is stored.
func (s *Session) LoggedIn() bool {
	_, token := s.Current()
	return token != ""
}

// save writes the session with owner-only permissions; the token is a
// credential.
func (s *Session) save() error {
	s.mu.Lock()
	data, err := json.Marshal(s)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	return os.WriteFile(s.path, data, 0o600)
}
