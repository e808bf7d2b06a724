// Package sessionstore persists the signed-in session and UI theme in a JSON file.
package sessionstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/runoshun/taskflow/internal/domain"
)

// Ensure Store implements domain.SessionStore.
var _ domain.SessionStore = (*Store)(nil)

// storeData represents the JSON file structure.
// The keys are fixed so other TaskFlow clients can share the file.
type storeData struct {
	User  *domain.User `json:"tf_user,omitempty"`
	Token string       `json:"tf_token,omitempty"`
	Theme domain.Theme `json:"tf_theme,omitempty"`
}

// Store implements domain.SessionStore using a JSON file.
type Store struct {
	path         string
	lockPath     string
	defaultTheme domain.Theme
}

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first write.
func New(path string) *Store {
	return &Store{
		path:         path,
		lockPath:     path + ".lock",
		defaultTheme: domain.ThemeDark,
	}
}

// WithDefaultTheme sets the theme returned when none is stored.
// Invalid themes are ignored.
func (s *Store) WithDefaultTheme(theme domain.Theme) *Store {
	if theme.IsValid() {
		s.defaultTheme = theme
	}
	return s
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored session, or nil if none is stored.
// A user without a token is treated as logged out.
func (s *Store) Load() (*domain.Session, error) {
	var session *domain.Session
	err := s.withLock(func(data *storeData) error {
		if data.User == nil || data.Token == "" {
			return nil
		}
		session = &domain.Session{User: *data.User, Token: data.Token}
		return nil
	})
	return session, err
}

// Save stores the session, replacing any previous one.
func (s *Store) Save(session *domain.Session) error {
	if !session.IsValid() {
		return errors.New("save session: missing token")
	}
	return s.withLockWrite(func(data *storeData) error {
		user := session.User
		data.User = &user
		data.Token = session.Token
		return nil
	})
}

// Clear removes the stored session. The theme is kept.
func (s *Store) Clear() error {
	return s.withLockWrite(func(data *storeData) error {
		data.User = nil
		data.Token = ""
		return nil
	})
}

// Theme returns the stored theme, or the default when none is stored.
func (s *Store) Theme() (domain.Theme, error) {
	theme := s.defaultTheme
	err := s.withLock(func(data *storeData) error {
		if data.Theme.IsValid() {
			theme = data.Theme
		}
		return nil
	})
	return theme, err
}

// SetTheme stores the theme.
func (s *Store) SetTheme(theme domain.Theme) error {
	if !theme.IsValid() {
		return fmt.Errorf("set theme %q: unknown theme", theme)
	}
	return s.withLockWrite(func(data *storeData) error {
		data.Theme = theme
		return nil
	})
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

// read returns the stored data. A missing file reads as empty.
func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &storeData{}, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var data storeData
	if len(content) == 0 {
		return &data, nil
	}
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	return &data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
