package gitkv

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/smart-tasks/internal/domain"
)

func newMemStore(t *testing.T) (*Store, *git.Repository) {
	t.Helper()
	repo, err := git.Init(memory.NewStorage(), nil)
	require.NoError(t, err)
	return NewWithRepo(repo, "tasks-test"), repo
}

func TestStore_GetMissing(t *testing.T) {
	s, _ := newMemStore(t)

	_, err := s.Get(context.Background(), "smartTasks")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestStore_SetGetDelete(t *testing.T) {
	s, repo := newMemStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "smartTasks", []byte(`[{"id":"a"}]`)))

	got, err := s.Get(ctx, "smartTasks")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(got))

	ref, err := repo.Reference(plumbing.ReferenceName("refs/tasks-test/kv/smartTasks"), true)
	require.NoError(t, err)
	assert.False(t, ref.Hash().IsZero())

	require.NoError(t, s.Set(ctx, "smartTasks", []byte(`[]`)))
	got, err = s.Get(ctx, "smartTasks")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, s.Delete(ctx, "smartTasks"))
	_, err = s.Get(ctx, "smartTasks")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestStore_LargeValue(t *testing.T) {
	s, _ := newMemStore(t)
	ctx := context.Background()

	value := make([]byte, 256*1024)
	for i := range value {
		value[i] = byte('a' + i%26)
	}
	require.NoError(t, s.Set(ctx, "big", value))

	got, err := s.Get(ctx, "big")
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestStore_Keys(t *testing.T) {
	s, _ := newMemStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	require.NoError(t, s.Set(ctx, "b", []byte("2")))
	other := NewWithRepo(s.repo, "other")
	require.NoError(t, other.Set(ctx, "c", []byte("3")))

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}

func TestStore_InvalidKeys(t *testing.T) {
	s, _ := newMemStore(t)
	ctx := context.Background()

	for _, key := range []string{"", ".hidden", "a/b", "a..b", "a b", "x.lock", "a:b"} {
		t.Run(key, func(t *testing.T) {
			assert.ErrorIs(t, s.Set(ctx, key, []byte("v")), ErrInvalidKey)
			_, err := s.Get(ctx, key)
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestStore_DefaultNamespace(t *testing.T) {
	repo, err := git.Init(memory.NewStorage(), nil)
	require.NoError(t, err)
	s := NewWithRepo(repo, "")

	require.NoError(t, s.Set(context.Background(), "k", []byte("v")))
	_, err = repo.Reference(plumbing.ReferenceName("refs/smart-tasks/kv/k"), true)
	assert.NoError(t, err)
}

func TestNew_OpensOnDiskRepo(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	// Create an initial commit so the repository looks like a real project
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dir+"/README.md", []byte("# Test"), 0o644))
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	s, err := New(dir, "smart-tasks")
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "smartTasks", []byte(`[]`)))

	// A second instance sees the value
	s2, err := New(dir, "smart-tasks")
	require.NoError(t, err)
	got, err := s2.Get(ctx, "smartTasks")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	// The working tree is untouched
	status, err := wt.Status()
	require.NoError(t, err)
	assert.True(t, status.IsClean())
}

func TestNew_NotARepo(t *testing.T) {
	_, err := New(t.TempDir(), "smart-tasks")
	assert.Error(t, err)
}
