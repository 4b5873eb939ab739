package cli

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/smart-tasks/internal/app"
	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/tasklist"
	"github.com/runoshun/smart-tasks/internal/testutil"
)

// testNow is the fixed clock time used by CLI tests (today = 2024-03-05).
var testNow = time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

// newTestContainer creates an app.Container backed by an in-memory store.
func newTestContainer(t *testing.T) (*app.Container, *testutil.MockKV) {
	t.Helper()
	kv := testutil.NewMockKV()
	store := tasklist.New(kv, &testutil.SequenceIDs{},
		tasklist.WithClock(&testutil.MockClock{NowTime: testNow}))
	require.NoError(t, store.Load(context.Background()))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	container := app.NewWithDeps(
		app.Config{WorkDir: t.TempDir(), GlobalConfigDir: t.TempDir()},
		domain.NewDefaultConfig(),
		store,
		logger,
	)
	return container, kv
}

// runCommand executes cmd with args and returns stdout.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func addTasks(t *testing.T, c *app.Container, texts ...string) {
	t.Helper()
	for _, text := range texts {
		_, err := c.Tasks.Add(context.Background(), text, "", nil)
		require.NoError(t, err)
	}
}
