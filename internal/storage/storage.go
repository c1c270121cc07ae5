// Package storage provides the durable key/value state used across runs:
// session identity, the bootstrap token cache and the persisted category
// snapshot. It is the client-side analog of the browser's local storage,
// backed by a single YAML file.
package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/alonu/alonu-client/internal/config"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Well-known state keys. Consumers finding an unexpected shape under a key
// treat it as absent and re-fetch.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"

	KeyAuthToken     = "alonu_auth_token"
	KeyAuthTimestamp = "alonu_auth_timestamp"

	KeyCategoriesCache       = "alonu_categories_cache"
	KeyCategoriesCacheExpiry = "alonu_categories_cache_expiry"
)

const stateFileMode = 0o600

// Store is a mutex-guarded string map mirrored to disk on every mutation.
// Write failures are logged and otherwise ignored: persistence is an
// optimization, never a correctness requirement.
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// Open loads the state file named by the configuration, defaulting to a
// file under the user configuration directory. A missing, unreadable or
// malformed file yields an empty store.
func Open(cfg config.StorageConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "alonu", "state.yaml")
	}

	return &Store{
		path:   path,
		values: loadValues(path),
	}, nil
}

// NewMemory returns a store that never touches disk.
func NewMemory() *Store {
	return &Store{values: map[string]string{}}
}

func loadValues(path string) map[string]string {
	values := map[string]string{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Debug().Err(err).Str("path", path).Msg("state file unreadable, starting empty")
		}
		return values
	}

	if err := yaml.Unmarshal(data, &values); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("state file malformed, starting empty")
		return map[string]string{}
	}

	return values
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	return v, ok
}

func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	s.persist()
}

// SetAll writes several keys in one disk flush.
func (s *Store) SetAll(values map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range values {
		s.values[k] = v
	}
	s.persist()
}

func (s *Store) Delete(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.values, k)
	}
	s.persist()
}

// Clear empties the store entirely.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = map[string]string{}
	s.persist()
}

// persist writes the state file. Callers hold the mutex.
func (s *Store) persist() {
	if s.path == "" {
		return
	}

	data, err := yaml.Marshal(s.values)
	if err != nil {
		log.Debug().Err(err).Msg("state marshal failed")
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		log.Debug().Err(err).Str("path", s.path).Msg("state dir creation failed")
		return
	}

	if err := os.WriteFile(s.path, data, stateFileMode); err != nil {
		log.Debug().Err(err).Str("path", s.path).Msg("state write failed")
	}
}
