package tokenstore

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mr-tron/base58"
	"github.com/rs/zerolog/log"
)

// Sentinel errors
var (
	// ErrStateUnreadable is returned when the state file exists but cannot
	// be parsed.
	ErrStateUnreadable = errors.New("session state unreadable")
)

// state is the on-disk shape of everything the client persists across runs:
// the bearer token, the bypass flag, and UI preferences (theme, accent,
// reduced motion). The token is the sole source of truth for "logged in".
type state struct {
	Version     int               `json:"version"`
	Token       string            `json:"token,omitempty"`
	Bypass      bool              `json:"bypass,omitempty"`
	Preferences map[string]string `json:"preferences,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Store persists session state on the local filesystem. Reads of missing
// values return zero values and never fail; writes report errors.
type Store struct {
	mu      sync.Mutex
	baseDir string
}

// NewStore creates a session state store.
// If baseDir is empty, uses ~/.edufin/
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".edufin")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	store := &Store{baseDir: baseDir}

	if err := store.ensureState(); err != nil {
		return nil, err
	}

	log.Debug().Str("baseDir", baseDir).Msg("token store initialized")

	return store, nil
}

// SetToken persists the bearer token.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(func(st *state) {
		st.Token = token
	})
}

// Token returns the stored bearer token, or "" when none is stored.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadState()
	if err != nil {
		log.Debug().Err(err).Msg("token read failed, treating as absent")
		return ""
	}
	return st.Token
}

// RemoveToken discards the stored bearer token.
func (s *Store) RemoveToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(func(st *state) {
		st.Token = ""
	})
}

// SetBypass persists the bypass flag.
func (s *Store) SetBypass(flag bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(func(st *state) {
		st.Bypass = flag
	})
}

// Bypass returns the stored bypass flag, false when never set.
func (s *Store) Bypass() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadState()
	if err != nil {
		log.Debug().Err(err).Msg("bypass read failed, treating as unset")
		return false
	}
	return st.Bypass
}

// ClearBypass removes the bypass flag.
func (s *Store) ClearBypass() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(func(st *state) {
		st.Bypass = false
	})
}

// SetPreference stores a UI preference (theme, accent, reduced-motion).
// Preferences live outside the auth core but share the state file.
func (s *Store) SetPreference(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(func(st *state) {
		if st.Preferences == nil {
			st.Preferences = make(map[string]string)
		}
		st.Preferences[key] = value
	})
}

// Preference returns a stored preference, or "" when unset.
func (s *Store) Preference(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadState()
	if err != nil {
		return ""
	}
	return st.Preferences[key]
}

// Preferences returns a copy of all stored preferences.
func (s *Store) Preferences() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadState()
	if err != nil {
		return nil
	}

	prefs := make(map[string]string, len(st.Preferences))
	for k, v := range st.Preferences {
		prefs[k] = v
	}
	return prefs
}

// TokenFingerprint returns a Base58-encoded SHA256 of the stored token for
// display. The raw token never leaves the store through this path.
func (s *Store) TokenFingerprint() string {
	token := s.Token()
	if token == "" {
		return ""
	}

	hash := sha256.Sum256([]byte(token))
	return base58.Encode(hash[:])
}

// ensureState creates an empty state file if it doesn't exist.
func (s *Store) ensureState() error {
	statePath := filepath.Join(s.baseDir, "state.json")

	if _, err := os.Stat(statePath); err == nil {
		return nil
	}

	return s.saveState(&state{Version: 1})
}

// mutate applies fn to the current state and writes it back.
func (s *Store) mutate(fn func(*state)) error {
	st, err := s.loadState()
	if err != nil {
		// A corrupt state file should not brick the client; start over.
		log.Warn().Err(err).Msg("resetting unreadable session state")
		st = &state{Version: 1}
	}

	fn(st)
	st.UpdatedAt = time.Now().UTC()

	return s.saveState(st)
}

// loadState reads the state file.
func (s *Store) loadState() (*state, error) {
	statePath := filepath.Join(s.baseDir, "state.json")

	data, err := os.ReadFile(statePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateUnreadable, err)
	}

	return &st, nil
}

// saveState writes the state file atomically.
func (s *Store) saveState(st *state) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	statePath := filepath.Join(s.baseDir, "state.json")
	tempPath := statePath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}

	if err := os.Rename(tempPath, statePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save state: %w", err)
	}

	return nil
}
