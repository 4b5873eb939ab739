// Package gitkv provides a Git plumbing-based implementation of domain.KVStore.
package gitkv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/runoshun/smart-tasks/internal/domain"
)

// ErrInvalidKey is returned for keys that are not valid ref name components.
var ErrInvalidKey = errors.New("invalid key")

// Store implements domain.KVStore using Git refs and blobs.
// Values never touch the working tree or the commit graph.
//
// Data structure:
//
//	refs/<namespace>/
//	  kv/
//	    <key>  → blob (value)
type Store struct {
	repo      *git.Repository
	namespace string // e.g., "smart-tasks"
	mu        sync.RWMutex
}

// New opens the repository containing repoPath.
func New(repoPath, namespace string) (*Store, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	return NewWithRepo(repo, namespace), nil
}

// NewWithRepo creates a new Store with an existing repository instance.
func NewWithRepo(repo *git.Repository, namespace string) *Store {
	if namespace == "" {
		namespace = domain.DefaultGitNamespace
	}
	return &Store{
		repo:      repo,
		namespace: namespace,
	}
}

// refPrefix returns the ref prefix for this namespace.
func (s *Store) refPrefix() string {
	return "refs/" + s.namespace + "/kv/"
}

// keyRef returns the ref name for a key.
func (s *Store) keyRef(key string) (plumbing.ReferenceName, error) {
	if !validKey(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return plumbing.ReferenceName(s.refPrefix() + key), nil
}

// Get returns the blob referenced by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	name, err := s.keyRef(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, err := s.repo.Reference(name, true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("get ref %s: %w", name, err)
	}

	return s.readBlob(ref.Hash())
}

// Set writes value to a new blob and points the key's ref at it.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	name, err := s.keyRef(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := s.writeBlob(value)
	if err != nil {
		return err
	}
	if err := s.repo.Storer.SetReference(plumbing.NewHashReference(name, hash)); err != nil {
		return fmt.Errorf("set ref %s: %w", name, err)
	}
	return nil
}

// Delete removes the key's ref. The blob is left for git gc.
func (s *Store) Delete(_ context.Context, key string) error {
	name, err := s.keyRef(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Storer.RemoveReference(name); err != nil && !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("remove ref %s: %w", name, err)
	}
	return nil
}

// Keys lists every key stored in the namespace.
func (s *Store) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs, err := s.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}
	defer refs.Close()

	prefix := s.refPrefix()
	var keys []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if name := ref.Name().String(); strings.HasPrefix(name, prefix) {
			keys = append(keys, strings.TrimPrefix(name, prefix))
		}
		return nil
	})
	return keys, err
}

// Close is a no-op; the repository holds no open handles between calls.
func (s *Store) Close() error {
	return nil
}

// writeBlob writes data to a blob and returns the hash.
func (s *Store) writeBlob(data []byte) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}

	if _, writeErr := writer.Write(data); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", writeErr)
	}
	_ = writer.Close()

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}

	return hash, nil
}

// readBlob reads the full content of a blob.
func (s *Store) readBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob data: %w", err)
	}
	return data, nil
}

// validKey reports whether key can be used as a single ref name component.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, ".") || strings.HasSuffix(key, ".lock") || strings.Contains(key, "..") {
		return false
	}
	for _, r := range key {
		if r <= ' ' || r == 0x7f || strings.ContainsRune(`/\~^:?*[@{`, r) {
			return false
		}
	}
	return true
}

var _ domain.KVStore = (*Store)(nil)
