// Package session holds the active Codeforces handle for the running
// dashboard and persists it across restarts.
package session

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// HandleKey is the settings key the active handle is stored under.
const HandleKey = "active_handle"

var (
	ErrInvalidHandle = errors.New("invalid handle")
	// ErrNotFound is what a Store returns for a key that was never saved.
	ErrNotFound = errors.New("not found")
)

// Codeforces handles are 3 to 24 letters, digits, underscores, dashes or dots.
var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]{3,24}$`)

// Store is the durable key/value backend of a Session.
type Store interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
}

// Session is the active user identity. It is safe for concurrent use.
type Session struct {
	mu     sync.RWMutex
	store  Store
	handle string
}

// Load reads the stored handle. isMissing classifies the store's "no such
// key" error; nil treats only ErrNotFound as missing.
func Load(store Store, isMissing func(error) bool) (*Session, error) {
	if isMissing == nil {
		isMissing = func(err error) bool { return errors.Is(err, ErrNotFound) }
	}
	s := &Session{store: store}

	h, err := store.GetSetting(HandleKey)
	switch {
	case err == nil:
		s.handle = h
	case isMissing(err):
	default:
		return nil, fmt.Errorf("load handle: %w", err)
	}
	return s, nil
}

// Handle returns the active handle and whether one is set.
func (s *Session) Handle() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handle, s.handle != ""
}

// SetHandle validates, stores and activates a handle.
func (s *Session) SetHandle(handle string) error {
	handle, err := NormalizeHandle(handle)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if handle == s.handle {
		return nil
	}
	if err := s.store.SetSetting(HandleKey, handle); err != nil {
		return fmt.Errorf("save handle: %w", err)
	}
	s.handle = handle
	return nil
}

// Clear forgets the active handle.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.DeleteSetting(HandleKey); err != nil {
		return fmt.Errorf("clear handle: %w", err)
	}
	s.handle = ""
	return nil
}

// NormalizeHandle trims surrounding space and checks the handle's shape.
func NormalizeHandle(handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if !handlePattern.MatchString(handle) {
		return "", fmt.Errorf("%w: %q", ErrInvalidHandle, handle)
	}
	return handle, nil
}
