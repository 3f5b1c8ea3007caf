// Package session persists the authentication token and user record in
// durable local storage. It is a cache, not a security boundary: the token
// is never validated here, only stored and handed out.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"flicker/internal/domain"
)

const sessionFile = "session.json"

// Store is a file-backed session store. A single process-wide instance is
// passed by reference to every consumer.
type Store struct {
	path string
}

// stored is the on-disk shape of a session.
type stored struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user,omitempty"`
}

// NewStore creates a session store rooted at dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &Store{path: filepath.Join(dir, sessionFile)}, nil
}

// Save persists the token and user together. The write goes through a temp
// file and rename so readers never observe a half-written session.
func (s *Store) Save(token string, user domain.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	data, err := json.MarshalIndent(stored{Token: token, User: userJSON}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Missing state is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// IsAuthenticated returns true iff a non-empty token is stored.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Token returns the stored token, or "" when absent or unreadable.
func (s *Store) Token() string {
	st, ok := s.read()
	if !ok {
		return ""
	}
	return st.Token
}

// User returns the stored user record. A corrupted record is treated as
// absent rather than raising.
func (s *Store) User() (domain.User, bool) {
	st, ok := s.read()
	if !ok || len(st.User) == 0 {
		return domain.User{}, false
	}
	var user domain.User
	if err := json.Unmarshal(st.User, &user); err != nil {
		return domain.User{}, false
	}
	return user, true
}

func (s *Store) read() (stored, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return stored{}, false
	}
	var st stored
	if err := json.Unmarshal(data, &st); err != nil {
		return stored{}, false
	}
	return st, true
}
