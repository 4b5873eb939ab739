package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/tasklist"
	"github.com/runoshun/smart-tasks/internal/testutil"
)

// testNow is the fixed clock time used by use case tests (today = 2024-03-05).
var testNow = time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*tasklist.Store, *testutil.MockKV) {
	t.Helper()
	kv := testutil.NewMockKV()
	store := tasklist.New(kv, &testutil.SequenceIDs{},
		tasklist.WithClock(&testutil.MockClock{NowTime: testNow}))
	require.NoError(t, store.Load(context.Background()))
	return store, kv
}

func seed(t *testing.T, store *tasklist.Store, texts ...string) []domain.Task {
	t.Helper()
	out := make([]domain.Task, 0, len(texts))
	for _, text := range texts {
		task, err := store.Add(context.Background(), text, "", nil)
		require.NoError(t, err)
		require.NotNil(t, task)
		out = append(out, *task)
	}
	return out
}

func taskIDs(tasks []domain.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func ptr[T any](v T) *T {
	return &v
}

// mockConfigManager is a test double for domain.ConfigManager.
type mockConfigManager struct {
	initGlobalErr error
	initLocalErr  error
	initGlobalCfg *domain.Config
	initLocalCfg  *domain.Config
	global        domain.ConfigInfo
	local         domain.ConfigInfo
}

func (m *mockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo { return m.global }
func (m *mockConfigManager) GetLocalConfigInfo() domain.ConfigInfo  { return m.local }

func (m *mockConfigManager) InitGlobalConfig(cfg *domain.Config) error {
	m.initGlobalCfg = cfg
	return m.initGlobalErr
}

func (m *mockConfigManager) InitLocalConfig(cfg *domain.Config) error {
	m.initLocalCfg = cfg
	return m.initLocalErr
}

// mockConfigLoader is a test double for domain.ConfigLoader.
type mockConfigLoader struct {
	cfg *domain.Config
	err error
}

func (m *mockConfigLoader) Load() (*domain.Config, error)       { return m.cfg, m.err }
func (m *mockConfigLoader) LoadGlobal() (*domain.Config, error) { return m.cfg, m.err }
