// Package store persists the long-lived OAuth refresh token.
//
// [TokenStore] is deliberately narrow: the Auth Session only ever loads the refresh token once and saves it
// after an exchange. [EnvFileStore] keeps it in a KEY=VALUE dotenv file next to the process, [MemoryStore]
// backs tests and ephemeral runs.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/joho/godotenv"
)

// TokenStore loads and saves a refresh token.
type TokenStore interface {
	// Load returns the persisted refresh token, or "" when none is stored.
	Load() (string, error)
	// Save replaces the persisted refresh token.
	Save(refreshToken string) error
}

// EnvFileStore keeps the refresh token under Key in a dotenv file at Path.
//
// Other keys in the file are read and written back unchanged.
type EnvFileStore struct {
	Path string
	Key  string
	mu   sync.Mutex
}

// NewEnvFileStore creates an [EnvFileStore], defaulting to ".env" and [shared.EnvRefreshToken].
func NewEnvFileStore(path, key string) *EnvFileStore {
	if path == "" {
		path = ".env"
	}
	if key == "" {
		key = shared.EnvRefreshToken
	}
	return &EnvFileStore{Path: path, Key: key}
}

// Read returns every key in the file. A missing file is an empty map.
func (s *EnvFileStore) Read() (map[string]string, error) {
	env, err := godotenv.Read(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", shared.ErrTokenStore, s.Path, err)
	}
	return env, nil
}

func (s *EnvFileStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.Read()
	if err != nil {
		return "", err
	}
	return env[s.Key], nil
}

func (s *EnvFileStore) Save(refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.Read()
	if err != nil {
		return err
	}
	env[s.Key] = refreshToken

	if err := godotenv.Write(env, s.Path); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrTokenStore, s.Path, err)
	}
	// godotenv.Write creates the file world-readable; it holds a secret.
	if err := os.Chmod(s.Path, 0600); err != nil {
		return fmt.Errorf("%w: failed to restrict %s: %v", shared.ErrTokenStore, s.Path, err)
	}
	return nil
}

// MemoryStore is a [TokenStore] that never touches disk.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	saves int
}

// NewMemoryStore creates a [MemoryStore] seeded with token.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) Save(refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = refreshToken
	m.saves++
	return nil
}

// Saves reports how many times Save was called.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
