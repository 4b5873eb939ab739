package filekv

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/smart-tasks/internal/domain"
)

func TestStore_GetMissing(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nested", "store"))

	_, err := s.Get(context.Background(), "smartTasks")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestStore_SetAndGet(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "smartTasks", []byte(`[{"id":"a"}]`)))

	got, err := s.Get(ctx, "smartTasks")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(got))

	// The value is stored verbatim in a readable file
	raw, err := os.ReadFile(filepath.Join(dir, "smartTasks.json"))
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(raw))

	// No temp file left behind
	_, err = os.Stat(filepath.Join(dir, "smartTasks.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_SetOverwrites(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("one")))
	require.NoError(t, s.Set(ctx, "k", []byte("two")))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
}

func TestStore_Delete(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k"))

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	// Deleting again is fine
	require.NoError(t, s.Delete(ctx, "k"))
}

func TestStore_InvalidKeys(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"", ".", "..", "../escape", "a/b", `a\b`, ".lock"} {
		t.Run(key, func(t *testing.T) {
			assert.ErrorIs(t, s.Set(ctx, key, []byte("v")), ErrInvalidKey)
			_, err := s.Get(ctx, key)
			assert.ErrorIs(t, err, ErrInvalidKey)
			assert.ErrorIs(t, s.Delete(ctx, key), ErrInvalidKey)
		})
	}
}

func TestStore_ConcurrentWriters(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Separate instances share only the lock file
			assert.NoError(t, New(dir).Set(ctx, "k", []byte("value")))
		}()
	}
	wg.Wait()

	got, err := New(dir).Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "value", string(got))
}
