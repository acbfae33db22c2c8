// Package connection provides server communication for stallgate-cli.
package connection

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the session token between CLI invocations.
// Tokens are written with owner-only permissions.
type TokenStore struct {
	path string
}

// NewTokenStore creates a token store backed by the given file.
// An empty path resolves to the default location under the user
// config directory.
func NewTokenStore(path string) (*TokenStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "stallgate", "token")
	}
	return &TokenStore{path: path}, nil
}

// Path returns the file the store reads and writes.
func (s *TokenStore) Path() string {
	return s.path
}

// Save writes the token to disk, creating parent directories as needed.
func (s *TokenStore) Save(token string) error {
	if token == "" {
		return errors.New("token is empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Load reads the stored token. A missing file returns an empty token
// and no error, so callers can fall back to flags or environment.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Clear removes the stored token. Clearing an absent token is not an
// error.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
