package tasklist

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/testutil"
)

func newTestStore(t *testing.T) (*Store, *testutil.MockKV, *testutil.MockClock) {
	t.Helper()
	kv := testutil.NewMockKV()
	clock := &testutil.MockClock{NowTime: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	s := New(kv, &testutil.SequenceIDs{}, WithClock(clock))
	require.NoError(t, s.Load(context.Background()))
	return s, kv, clock
}

func addTask(t *testing.T, s *Store, text string) domain.Task {
	t.Helper()
	task, err := s.Add(context.Background(), text, "", nil)
	require.NoError(t, err)
	require.NotNil(t, task)
	return *task
}

func ids(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func persisted(t *testing.T, kv *testutil.MockKV) []domain.Task {
	t.Helper()
	var tasks []domain.Task
	require.NoError(t, json.Unmarshal(kv.Data[domain.DefaultStorageKey], &tasks))
	return tasks
}

func TestStore_LoadMissingKey(t *testing.T) {
	s, _, _ := newTestStore(t)
	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.Tasks())
}

func TestStore_LoadMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{oops"},
		{"object", `{"id":"a"}`},
		{"null", "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := testutil.NewMockKV()
			kv.Data[domain.DefaultStorageKey] = []byte(tt.data)
			logger := &testutil.MockLogger{}
			s := New(kv, &testutil.SequenceIDs{}, WithLogger(logger))

			require.NoError(t, s.Load(context.Background()))
			assert.Equal(t, 0, s.Len())
			assert.Equal(t, 1, logger.Count("warn"))
			assert.Equal(t, tt.data, string(kv.Data[s.CorruptKey()]))
		})
	}
}

func TestStore_LoadDropsOnlyInvalidElements(t *testing.T) {
	blob := `[` +
		`{"id":"a1","text":"Buy milk","done":false,"created":1700000000000,"priority":"high","due":"2024-03-01"},` +
		`{"id":"a2","text":"Walk dog","done":true,"created":1700000001000,"priority":"low"},` +
		`{"id":"a3","text":"","created":1700000002000,"priority":"low"},` +
		`{"id":"a1","text":"Duplicate","created":1700000003000,"priority":"low"},` +
		`{"id":"a4","text":"Bad date","priority":"low","due":"tomorrow"},` +
		`{"text":"No id","priority":"low"}` +
		`]`
	kv := testutil.NewMockKV()
	kv.Data[domain.DefaultStorageKey] = []byte(blob)
	logger := &testutil.MockLogger{}
	s := New(kv, &testutil.SequenceIDs{}, WithLogger(logger))

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, []string{"a1", "a2"}, ids(s.Tasks()))
	assert.Equal(t, 4, logger.Count("warn"))
	assert.Equal(t, blob, string(kv.Data[s.CorruptKey()]))

	addTask(t, s, "New")
	assert.Equal(t, []string{"a1", "a2", "t1"}, ids(persisted(t, kv)))
}

func TestStore_LoadRepairsPriority(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.Data[domain.DefaultStorageKey] = []byte(`[{"id":"a","text":"x"},{"id":"b","text":"y","priority":"urgent"}]`)
	logger := &testutil.MockLogger{}
	s := New(kv, &testutil.SequenceIDs{}, WithLogger(logger))

	require.NoError(t, s.Load(context.Background()))
	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, domain.PriorityMedium, tasks[0].Priority)
	assert.Equal(t, domain.PriorityMedium, tasks[1].Priority)
	assert.Equal(t, 1, logger.Count("warn"))
	assert.NotContains(t, kv.Data, s.CorruptKey())
}

func TestStore_LoadQuarantineFailure(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.Data[domain.DefaultStorageKey] = []byte(`[{"id":"a","text":""}]`)
	kv.SetErr = errors.New("disk full")
	logger := &testutil.MockLogger{}
	s := New(kv, &testutil.SequenceIDs{}, WithLogger(logger))

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 2, logger.Count("warn"))
}

func TestStore_LoadStorageError(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.GetErr = errors.New("connection refused")
	s := New(kv, &testutil.SequenceIDs{})

	err := s.Load(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestStore_LoadPersistedList(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.Data["custom"] = []byte(`[{"id":"ab12cd3","text":"Buy milk","done":false,"created":1700000000000,"priority":"medium","due":"2024-03-01"}]`)
	s := New(kv, &testutil.SequenceIDs{}, WithKey("custom"))

	require.NoError(t, s.Load(context.Background()))
	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "ab12cd3", tasks[0].ID)
	assert.Equal(t, "Buy milk", tasks[0].Text)
	assert.Equal(t, int64(1700000000000), tasks[0].Created)
	require.NotNil(t, tasks[0].Due)
	assert.Equal(t, "2024-03-01", tasks[0].Due.String())
}

func TestStore_Add(t *testing.T) {
	s, kv, clock := newTestStore(t)
	due := domain.NewDate(2024, 3, 1)

	task, err := s.Add(context.Background(), "  Buy milk  ", domain.PriorityHigh, &due)
	require.NoError(t, err)
	require.NotNil(t, task)

	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, "Buy milk", task.Text)
	assert.False(t, task.Done)
	assert.Equal(t, clock.NowTime.UnixMilli(), task.Created)
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	assert.Equal(t, due, *task.Due)

	stored := persisted(t, kv)
	require.Len(t, stored, 1)
	assert.Equal(t, *task, stored[0])
}

func TestStore_AddDefaults(t *testing.T) {
	s, _, _ := newTestStore(t)
	task := addTask(t, s, "x")
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.Nil(t, task.Due)
}

func TestStore_AddBlankIsNoOp(t *testing.T) {
	s, kv, _ := newTestStore(t)
	addTask(t, s, "keep")
	calls := kv.SetCalls

	for _, text := range []string{"", "   ", "\t\n"} {
		task, err := s.Add(context.Background(), text, domain.PriorityHigh, nil)
		require.NoError(t, err)
		assert.Nil(t, task)
	}
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, calls, kv.SetCalls)
}

func TestStore_AddAppendsInOrder(t *testing.T) {
	s, _, _ := newTestStore(t)
	addTask(t, s, "a")
	addTask(t, s, "b")
	addTask(t, s, "c")
	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(s.Tasks()))
}

func TestStore_AddCollidingIDsStayUnique(t *testing.T) {
	kv := testutil.NewMockKV()
	s := New(kv, testutil.FixedIDs{ID: "same"})

	for i := 0; i < 4; i++ {
		addTask(t, s, "x")
	}
	seen := map[string]bool{}
	for _, id := range ids(s.Tasks()) {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestStore_Update(t *testing.T) {
	s, kv, _ := newTestStore(t)
	task := addTask(t, s, "old")
	text := "new"
	done := true
	prio := domain.PriorityLow
	due := domain.NewDate(2025, 1, 2)

	err := s.Update(context.Background(), task.ID, domain.TaskPatch{Text: &text, Done: &done, Priority: &prio, Due: &due})
	require.NoError(t, err)

	got, ok := s.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, "new", got.Text)
	assert.True(t, got.Done)
	assert.Equal(t, domain.PriorityLow, got.Priority)
	assert.Equal(t, due, *got.Due)
	assert.Equal(t, task.Created, got.Created)
	assert.Equal(t, got, persisted(t, kv)[0])
}

func TestStore_UpdatePartial(t *testing.T) {
	s, _, _ := newTestStore(t)
	due := domain.NewDate(2024, 4, 4)
	task, err := s.Add(context.Background(), "keep me", domain.PriorityHigh, &due)
	require.NoError(t, err)

	done := true
	require.NoError(t, s.Update(context.Background(), task.ID, domain.TaskPatch{Done: &done}))

	got, _ := s.Get(task.ID)
	assert.Equal(t, "keep me", got.Text)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, due, *got.Due)
	assert.True(t, got.Done)
}

func TestStore_UpdateBlankTextKeepsText(t *testing.T) {
	s, _, _ := newTestStore(t)
	task := addTask(t, s, "keep")
	blank := "   "
	prio := domain.PriorityLow

	require.NoError(t, s.Update(context.Background(), task.ID, domain.TaskPatch{Text: &blank, Priority: &prio}))

	got, _ := s.Get(task.ID)
	assert.Equal(t, "keep", got.Text)
	assert.Equal(t, domain.PriorityLow, got.Priority)
}

func TestStore_UpdateClearDue(t *testing.T) {
	s, _, _ := newTestStore(t)
	due := domain.NewDate(2024, 4, 4)
	task, err := s.Add(context.Background(), "x", "", &due)
	require.NoError(t, err)

	require.NoError(t, s.Update(context.Background(), task.ID, domain.TaskPatch{ClearDue: true}))

	got, _ := s.Get(task.ID)
	assert.Nil(t, got.Due)
}

func TestStore_UpdateUnknownIsNoOp(t *testing.T) {
	s, kv, _ := newTestStore(t)
	addTask(t, s, "a")
	before := s.Tasks()
	calls := kv.SetCalls
	done := true

	require.NoError(t, s.Update(context.Background(), "nope", domain.TaskPatch{Done: &done}))

	assert.Equal(t, before, s.Tasks())
	assert.Equal(t, calls, kv.SetCalls)
}

func TestStore_Toggle(t *testing.T) {
	s, _, _ := newTestStore(t)
	task := addTask(t, s, "a")

	require.NoError(t, s.Toggle(context.Background(), task.ID))
	got, _ := s.Get(task.ID)
	assert.True(t, got.Done)

	require.NoError(t, s.Toggle(context.Background(), task.ID))
	got, _ = s.Get(task.ID)
	assert.False(t, got.Done)

	require.NoError(t, s.Toggle(context.Background(), "missing"))
}

func TestStore_Delete(t *testing.T) {
	s, kv, _ := newTestStore(t)
	a := addTask(t, s, "a")
	addTask(t, s, "b")

	require.NoError(t, s.Delete(context.Background(), a.ID))
	assert.Equal(t, []string{"t2"}, ids(s.Tasks()))
	assert.Len(t, persisted(t, kv), 1)

	calls := kv.SetCalls
	require.NoError(t, s.Delete(context.Background(), "missing"))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, calls, kv.SetCalls)
}

func TestStore_Reorder(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		beforeID string
		want     []string
	}{
		{"move last to front", "t4", "t1", []string{"t4", "t1", "t2", "t3"}},
		{"move first before third", "t1", "t3", []string{"t2", "t1", "t3", "t4"}},
		{"move to end", "t2", "", []string{"t1", "t3", "t4", "t2"}},
		{"same id is no-op", "t2", "t2", []string{"t1", "t2", "t3", "t4"}},
		{"unknown id is no-op", "zz", "t1", []string{"t1", "t2", "t3", "t4"}},
		{"unknown target is no-op", "t1", "zz", []string{"t1", "t2", "t3", "t4"}},
		{"already in place", "t1", "t2", []string{"t1", "t2", "t3", "t4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestStore(t)
			for _, text := range []string{"a", "b", "c", "d"} {
				addTask(t, s, text)
			}

			require.NoError(t, s.Reorder(context.Background(), tt.id, tt.beforeID))
			assert.Equal(t, tt.want, ids(s.Tasks()))
		})
	}
}

func TestStore_ReorderIsIdempotent(t *testing.T) {
	s, _, _ := newTestStore(t)
	for _, text := range []string{"a", "b", "c", "d"} {
		addTask(t, s, text)
	}

	require.NoError(t, s.Reorder(context.Background(), "t4", "t2"))
	first := ids(s.Tasks())
	require.NoError(t, s.Reorder(context.Background(), "t4", "t2"))
	assert.Equal(t, first, ids(s.Tasks()))
}

func TestStore_ReorderDoesNotChangeDefaultView(t *testing.T) {
	s, _, clock := newTestStore(t)
	for _, text := range []string{"a", "b", "c"} {
		addTask(t, s, text)
		clock.Advance(time.Second)
	}

	require.NoError(t, s.Reorder(context.Background(), "t3", "t1"))

	assert.Equal(t, []string{"t3", "t1", "t2"}, ids(s.Tasks()))
	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(s.View(domain.ViewOptions{})))
	assert.Equal(t, []string{"t3", "t1", "t2"}, ids(s.View(domain.ViewOptions{Sort: domain.SortManual})))
}

func TestStore_MoveUpDown(t *testing.T) {
	s, _, _ := newTestStore(t)
	for _, text := range []string{"a", "b", "c"} {
		addTask(t, s, text)
	}
	ctx := context.Background()

	require.NoError(t, s.MoveUp(ctx, "t3"))
	assert.Equal(t, []string{"t1", "t3", "t2"}, ids(s.Tasks()))

	require.NoError(t, s.MoveUp(ctx, "t1"))
	assert.Equal(t, []string{"t1", "t3", "t2"}, ids(s.Tasks()))

	require.NoError(t, s.MoveDown(ctx, "t1"))
	assert.Equal(t, []string{"t3", "t1", "t2"}, ids(s.Tasks()))

	require.NoError(t, s.MoveDown(ctx, "t1"))
	assert.Equal(t, []string{"t3", "t2", "t1"}, ids(s.Tasks()))

	require.NoError(t, s.MoveDown(ctx, "t1"))
	assert.Equal(t, []string{"t3", "t2", "t1"}, ids(s.Tasks()))
}

func TestStore_IDsStayDistinct(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	done := true

	for i := 0; i < 20; i++ {
		task := addTask(t, s, "task")
		switch i % 4 {
		case 1:
			require.NoError(t, s.Update(ctx, task.ID, domain.TaskPatch{Done: &done}))
		case 2:
			require.NoError(t, s.Reorder(ctx, task.ID, s.Tasks()[0].ID))
		case 3:
			require.NoError(t, s.Delete(ctx, s.Tasks()[1].ID))
		}
	}

	seen := map[string]bool{}
	for _, id := range ids(s.Tasks()) {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestStore_Clear(t *testing.T) {
	s, kv, _ := newTestStore(t)
	addTask(t, s, "a")
	addTask(t, s, "b")

	require.NoError(t, s.Clear(context.Background()))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "[]", string(kv.Data[domain.DefaultStorageKey]))

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 0, s.Len())
}

func TestStore_ClearRemovesCorruptCopy(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.Data[domain.DefaultStorageKey] = []byte(`{oops`)
	s := New(kv, &testutil.SequenceIDs{})
	require.NoError(t, s.Load(context.Background()))
	require.Contains(t, kv.Data, s.CorruptKey())

	require.NoError(t, s.Clear(context.Background()))
	assert.NotContains(t, kv.Data, s.CorruptKey())
	assert.Equal(t, "[]", string(kv.Data[domain.DefaultStorageKey]))
}

func TestStore_ClearDeleteFailureIsLogged(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.DeleteErr = errors.New("read-only")
	logger := &testutil.MockLogger{}
	s := New(kv, &testutil.SequenceIDs{}, WithLogger(logger))
	addTask(t, s, "a")

	require.NoError(t, s.Clear(context.Background()))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 1, logger.Count("warn"))
}

func TestStore_ExportRestoreRoundTrip(t *testing.T) {
	s, _, clock := newTestStore(t)
	due := domain.NewDate(2024, 3, 1)
	_, err := s.Add(context.Background(), "Buy milk", domain.PriorityHigh, &due)
	require.NoError(t, err)
	clock.Advance(time.Minute)
	b := addTask(t, s, "Walk dog")
	require.NoError(t, s.Toggle(context.Background(), b.ID))
	original := s.Tasks()

	exported, err := s.Export()
	require.NoError(t, err)
	assert.Contains(t, string(exported), "\n  {")

	other, _, _ := newTestStore(t)
	require.NoError(t, other.Restore(context.Background(), exported))
	assert.Equal(t, original, other.Tasks())
}

func TestStore_RestoreRejectsNonArray(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{"object", `{"not":"an array"}`, domain.ErrInvalidRestorePayload},
		{"scalar", `42`, domain.ErrInvalidRestorePayload},
		{"string", `"tasks"`, domain.ErrInvalidRestorePayload},
		{"missing id", `[{"text":"x","priority":"low"}]`, domain.ErrInvalidRestorePayload},
		{"empty text", `[{"id":"a","text":"  ","priority":"low"}]`, domain.ErrInvalidRestorePayload},
		{"bad priority", `[{"id":"a","text":"x","priority":"urgent"}]`, domain.ErrInvalidRestorePayload},
		{"wrong type", `[{"id":"a","text":"x","priority":"low","done":"yes"}]`, domain.ErrInvalidRestorePayload},
		{"bad date", `[{"id":"a","text":"x","priority":"low","due":"tomorrow"}]`, domain.ErrInvalidRestorePayload},
		{"null element", `[null]`, domain.ErrInvalidRestorePayload},
		{"not json", `[{"id":`, domain.ErrBackupUnreadable},
		{"empty", ``, domain.ErrBackupUnreadable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, kv, _ := newTestStore(t)
			addTask(t, s, "keep")
			before := s.Tasks()
			calls := kv.SetCalls

			err := s.Restore(context.Background(), json.RawMessage(tt.payload))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, s.Tasks())
			assert.Equal(t, calls, kv.SetCalls)
		})
	}
}

func TestStore_RestoreDefaultsMissingPriority(t *testing.T) {
	s, kv, _ := newTestStore(t)

	require.NoError(t, s.Restore(context.Background(), json.RawMessage(`[{"id":"a","text":"x"}]`)))
	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.PriorityMedium, tasks[0].Priority)
	assert.Equal(t, domain.PriorityMedium, persisted(t, kv)[0].Priority)
}

func TestStore_RestoreByteOrderMark(t *testing.T) {
	s, _, _ := newTestStore(t)

	payload := append([]byte("\xef\xbb\xbf"), `[{"id":"a","text":"x","priority":"low"}]`...)
	require.NoError(t, s.Restore(context.Background(), payload))
	assert.Equal(t, []string{"a"}, ids(s.Tasks()))
}

func TestStore_RestoreEmptyArray(t *testing.T) {
	s, _, _ := newTestStore(t)
	addTask(t, s, "gone")

	require.NoError(t, s.Restore(context.Background(), json.RawMessage(`[]`)))
	assert.Equal(t, 0, s.Len())
}

func TestStore_Resolve(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.Data[domain.DefaultStorageKey] = []byte(`[
		{"id":"abc123","text":"a","priority":"low"},
		{"id":"abd456","text":"b","priority":"low"},
		{"id":"ab","text":"c","priority":"low"}
	]`)
	s := New(kv, &testutil.SequenceIDs{})
	require.NoError(t, s.Load(context.Background()))

	got, err := s.Resolve("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.ID)

	got, err = s.Resolve("ab")
	require.NoError(t, err)
	assert.Equal(t, "ab", got.ID, "exact match wins over prefix")

	_, err = s.Resolve("abx")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = s.Resolve("a")
	assert.ErrorIs(t, err, domain.ErrAmbiguousRef)

	_, err = s.Resolve(" ")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestStore_PersistFailureKeepsMemoryState(t *testing.T) {
	s, kv, _ := newTestStore(t)
	kv.SetErr = errors.New("disk full")

	task, err := s.Add(context.Background(), "still here", "", nil)
	assert.ErrorContains(t, err, "disk full")
	require.NotNil(t, task)
	assert.Equal(t, 1, s.Len())
}

func TestStore_Observe(t *testing.T) {
	s, kv, _ := newTestStore(t)
	var events []Event
	s.Observe(func(ev Event) { events = append(events, ev) })

	addTask(t, s, "a")
	require.Len(t, events, 2)
	assert.Equal(t, Event{Op: "add", Kind: EventSaved, Count: 1}, events[0])
	assert.Equal(t, Event{Op: "add", Kind: EventChanged, Count: 1}, events[1])

	events = nil
	kv.SetErr = errors.New("boom")
	_, _ = s.Add(context.Background(), "b", "", nil)
	require.Len(t, events, 1)
	assert.Equal(t, EventChanged, events[0].Kind)

	events = nil
	require.NoError(t, s.Delete(context.Background(), "missing"))
	assert.Empty(t, events)
}

func TestStore_ViewOverdueAroundDueDate(t *testing.T) {
	s, _, clock := newTestStore(t)
	due := domain.NewDate(2024, 3, 1)
	task, err := s.Add(context.Background(), "Buy milk", domain.PriorityHigh, &due)
	require.NoError(t, err)
	overdue := domain.ViewOptions{Filter: domain.FilterOverdue}

	clock.NowTime = time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{task.ID}, ids(s.View(overdue)))

	clock.NowTime = time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	assert.Empty(t, s.View(overdue))

	clock.NowTime = time.Date(2024, 2, 28, 8, 0, 0, 0, time.UTC)
	assert.Empty(t, s.View(overdue))
}
