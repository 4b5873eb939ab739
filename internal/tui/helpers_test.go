package tui

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/smart-tasks/internal/app"
	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/tasklist"
	"github.com/runoshun/smart-tasks/internal/testutil"
)

// testNow is the fixed clock time used by TUI tests (today = 2024-03-05).
var testNow = time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

func newTestContainer(t *testing.T, cfg *domain.Config) *app.Container {
	t.Helper()
	store := tasklist.New(testutil.NewMockKV(), &testutil.SequenceIDs{},
		tasklist.WithClock(&testutil.MockClock{NowTime: testNow}))
	require.NoError(t, store.Load(context.Background()))

	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}
	cfg.Backup.File = filepath.Join(t.TempDir(), "backup.json")

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return app.NewWithDeps(
		app.Config{WorkDir: t.TempDir(), GlobalConfigDir: t.TempDir()},
		cfg,
		store,
		logger,
	)
}

// newTestModel creates a sized Model over a store holding the given tasks.
func newTestModel(t *testing.T, seed func(s *tasklist.Store)) (*Model, *app.Container) {
	t.Helper()
	c := newTestContainer(t, nil)
	if seed != nil {
		seed(c.Tasks)
	}
	m := New(c)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	refresh(t, m)
	return m, c
}

func addTask(t *testing.T, s *tasklist.Store, text string, priority domain.Priority, due *domain.Date) string {
	t.Helper()
	task, err := s.Add(context.Background(), text, priority, due)
	require.NoError(t, err)
	return task.ID
}

func date(y int, mo time.Month, d int) *domain.Date {
	v := domain.NewDate(y, mo, d)
	return &v
}

// refresh re-derives the view synchronously.
func refresh(t *testing.T, m *Model) {
	t.Helper()
	m.Update(m.loadTasks()())
}

// press sends a key to the model and runs the resulting action, if any.
func press(t *testing.T, m *Model, k tea.KeyMsg) tea.Msg {
	t.Helper()
	_, cmd := m.Update(k)
	return runAction(t, m, cmd)
}

// runAction executes an action command and feeds its result back.
func runAction(t *testing.T, m *Model, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch msg.(type) {
	case MsgActionDone, MsgError, MsgTasksLoaded:
		_, next := m.Update(msg)
		if next != nil {
			m.Update(next())
		}
	}
	return msg
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func visibleIDs(m *Model) []string {
	ids := make([]string, len(m.tasks))
	for i, task := range m.tasks {
		ids[i] = task.ID
	}
	return ids
}
