// Package filekv provides a directory-backed implementation of domain.KVStore.
// Each key is one file; writes go through a temp file and a rename.
package filekv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/runoshun/smart-tasks/internal/domain"
)

// fileExt is appended to every key to form its file name.
const fileExt = ".json"

// ErrInvalidKey is returned for keys that cannot be used as file names.
var ErrInvalidKey = errors.New("invalid key")

// Store implements domain.KVStore using one file per key.
type Store struct {
	dir      string
	lockPath string
}

// New creates a Store rooted at dir.
// The directory does not need to exist; it is created on first write.
func New(dir string) *Store {
	return &Store{
		dir:      dir,
		lockPath: filepath.Join(dir, ".lock"),
	}
}

// Dir returns the root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Get returns the value stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}

	var content []byte
	err = s.withLock(syscall.LOCK_SH, func() error {
		content, err = os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return domain.ErrKeyNotFound
			}
			return fmt.Errorf("read %s: %w", key, err)
		}
		return nil
	})
	return content, err
}

// Set writes value under key, replacing any previous value.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}

	return s.withLock(syscall.LOCK_EX, func() error {
		// Write to temp file first, then rename for atomicity
		tmpPath := path + ".tmp"
		if err := os.WriteFile(tmpPath, value, 0o600); err != nil {
			return fmt.Errorf("write temp file: %w", err)
		}
		if err := os.Rename(tmpPath, path); err != nil {
			_ = os.Remove(tmpPath) // Clean up
			return fmt.Errorf("rename temp file: %w", err)
		}
		return nil
	})
}

// Delete removes key. A missing key is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}

	return s.withLock(syscall.LOCK_EX, func() error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete %s: %w", key, err)
		}
		return nil
	})
}

// Close is a no-op; locks are held only for the duration of each call.
func (s *Store) Close() error {
	return nil
}

func (s *Store) pathFor(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+fileExt), nil
}

// withLock runs fn while holding a flock of the given type on the lock file.
func (s *Store) withLock(lockType int, fn func() error) error {
	lock, err := s.acquireLock(lockType)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)
	return fn()
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	// Ensure the store directory exists
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
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

// Ensure Store implements KVStore.
var _ domain.KVStore = (*Store)(nil)
