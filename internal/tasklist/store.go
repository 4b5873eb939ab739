// Package tasklist owns the canonical, ordered task list.
//
// Every mutation runs to completion as one sequence: change the in-memory
// list, persist the whole list under a single key, notify observers. The
// in-memory list stays authoritative when persisting fails.
package tasklist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/runoshun/smart-tasks/internal/domain"
)

// maxIDAttempts bounds retries when a generated id collides with an existing one.
const maxIDAttempts = 8

// EventKind distinguishes store notifications.
type EventKind int

// Event kinds.
const (
	EventChanged EventKind = iota // The list changed; views need re-deriving
	EventSaved                    // The list was persisted; counts need refreshing
)

// Event is delivered to observers after an operation.
type Event struct {
	Op    string // Operation name (add, update, ...)
	Kind  EventKind
	Count int // Total number of tasks after the operation
}

// Observer receives store events.
type Observer func(Event)

// Store is the single owner of the task list.
// Fields are ordered to minimize memory padding.
type Store struct {
	kv        domain.KVStore
	ids       domain.IDGenerator
	clock     domain.Clock
	logger    domain.Logger
	key       string
	tasks     []domain.Task
	observers []Observer
	mu        sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the storage key (default "smartTasks").
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock sets the clock used for creation timestamps and "today".
func WithClock(c domain.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l domain.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates an empty Store persisting to kv. Call Load to read existing data.
func New(kv domain.KVStore, ids domain.IDGenerator, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		ids:    ids,
		clock:  domain.RealClock{},
		logger: domain.NopLogger{},
		key:    domain.DefaultStorageKey,
		tasks:  []domain.Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key.
func (s *Store) Key() string {
	return s.key
}

// Observe registers fn to be called after every operation.
func (s *Store) Observe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Load replaces the in-memory list with the persisted one.
// A missing key yields an empty list. Malformed elements are dropped and
// the raw data is kept under CorruptKey; only a storage failure is returned.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil && !errors.Is(err, domain.ErrKeyNotFound) {
		return fmt.Errorf("read task list: %w", err)
	}

	tasks := []domain.Task{}
	if err == nil {
		res := salvageTasks(data)
		for _, p := range res.problems {
			s.logger.Warn("", "store", fmt.Sprintf("task list under %q: %s", s.key, p))
		}
		if res.dropped {
			s.quarantine(ctx, data)
		}
		tasks = res.tasks
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()

	s.logger.Debug("", "store", fmt.Sprintf("loaded %d task(s)", len(tasks)))
	return nil
}

// CorruptKey is where Load keeps a copy of data it could not fully read.
func (s *Store) CorruptKey() string {
	return s.key + ".corrupt"
}

func (s *Store) quarantine(ctx context.Context, data []byte) {
	if err := s.kv.Set(ctx, s.CorruptKey(), data); err != nil {
		s.logger.Warn("", "store", fmt.Sprintf("keep unreadable task list: %v", err))
		return
	}
	s.logger.Info("", "store", fmt.Sprintf("unreadable task list kept under %q", s.CorruptKey()))
}

// Save writes the full list under the storage key.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	err := s.persistLocked(ctx)
	count := len(s.tasks)
	s.mu.Unlock()

	if err == nil {
		s.emit(Event{Op: "save", Kind: EventSaved, Count: count})
	}
	return err
}

// Tasks returns a copy of the list in list order.
func (s *Store) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Today returns the current calendar date according to the store's clock.
func (s *Store) Today() domain.Date {
	return domain.DateOf(s.clock.Now())
}

// View derives the filtered and sorted display list.
func (s *Store) View(opts domain.ViewOptions) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.DeriveView(s.tasks, opts, s.Today())
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return domain.Task{}, false
}

// Resolve finds a task by exact id or by unique id prefix.
func (s *Store) Resolve(ref string) (domain.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(ref); i >= 0 {
		return s.tasks[i].Clone(), nil
	}

	match := -1
	for i := range s.tasks {
		if strings.HasPrefix(s.tasks[i].ID, ref) {
			if match >= 0 {
				return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrAmbiguousRef, ref)
			}
			match = i
		}
	}
	if match < 0 {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, ref)
	}
	return s.tasks[match].Clone(), nil
}

// Add appends a new task. Blank text is rejected silently: it returns nil
// and leaves the list untouched. An empty priority means medium.
func (s *Store) Add(ctx context.Context, text string, priority domain.Priority, due *domain.Date) (*domain.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if priority == "" {
		priority = domain.DefaultPriority
	}

	s.mu.Lock()
	task := domain.Task{
		ID:       s.newIDLocked(),
		Text:     text,
		Created:  s.clock.Now().UnixMilli(),
		Priority: priority,
	}
	if due != nil {
		d := *due
		task.Due = &d
	}
	s.tasks = append(s.tasks, task)
	err := s.finishLocked(ctx, "add")
	s.logger.Info(task.ID, "store", fmt.Sprintf("added %q", task.Text))
	return &task, err
}

// Update merges patch into the task with the given id. Unknown ids are ignored.
func (s *Store) Update(ctx context.Context, id string, patch domain.TaskPatch) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	patch.Apply(&s.tasks[i])
	return s.finishLocked(ctx, "update")
}

// Toggle flips the completion flag of the task with the given id.
func (s *Store) Toggle(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.tasks[i].Done = !s.tasks[i].Done
	return s.finishLocked(ctx, "toggle")
}

// Delete removes the task with the given id. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return s.finishLocked(ctx, "delete")
}

// Reorder moves the task id to just before beforeID, or to the end when
// beforeID is empty. It does nothing when either id is unknown or both
// are the same.
func (s *Store) Reorder(ctx context.Context, id, beforeID string) error {
	if id == beforeID {
		return nil
	}

	s.mu.Lock()
	from := s.indexLocked(id)
	if from < 0 || (beforeID != "" && s.indexLocked(beforeID) < 0) {
		s.mu.Unlock()
		return nil
	}

	task := s.tasks[from]
	s.tasks = slices.Delete(s.tasks, from, from+1)
	to := len(s.tasks)
	if beforeID != "" {
		to = s.indexLocked(beforeID)
	}
	s.tasks = slices.Insert(s.tasks, to, task)
	return s.finishLocked(ctx, "reorder")
}

// MoveUp swaps the task with its predecessor in list order.
func (s *Store) MoveUp(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i <= 0 {
		s.mu.Unlock()
		return nil
	}
	before := s.tasks[i-1].ID
	s.mu.Unlock()
	return s.Reorder(ctx, id, before)
}

// MoveDown swaps the task with its successor in list order.
func (s *Store) MoveDown(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 || i == len(s.tasks)-1 {
		s.mu.Unlock()
		return nil
	}
	before := ""
	if i+2 < len(s.tasks) {
		before = s.tasks[i+2].ID
	}
	s.mu.Unlock()
	return s.Reorder(ctx, id, before)
}

// Clear removes every task along with any copy kept under CorruptKey.
// It cannot be undone.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.tasks = []domain.Task{}
	if err := s.kv.Delete(ctx, s.CorruptKey()); err != nil {
		s.logger.Warn("", "store", fmt.Sprintf("clear: remove %q: %v", s.CorruptKey(), err))
	}
	return s.finishLocked(ctx, "clear")
}

// Restore replaces the whole list with payload, a JSON array of tasks.
// Unparseable input yields ErrBackupUnreadable; anything that is not an
// array of valid tasks yields ErrInvalidRestorePayload. On error the list
// is left unchanged. A leading UTF-8 byte order mark is ignored and a
// missing priority becomes the default.
func (s *Store) Restore(ctx context.Context, payload json.RawMessage) error {
	payload = bytes.TrimSpace(bytes.TrimPrefix(payload, utf8BOM))
	if !json.Valid(payload) {
		return domain.ErrBackupUnreadable
	}
	if len(payload) == 0 || payload[0] != '[' {
		return fmt.Errorf("%w: expected a JSON array", domain.ErrInvalidRestorePayload)
	}

	tasks, err := decodeTasks(payload)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.tasks = tasks
	return s.finishLocked(ctx, "restore")
}

// Export returns the list as an indented JSON array.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.MarshalIndent(s.tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal task list: %w", err)
	}
	return data, nil
}

// finishLocked persists and notifies. It must be called with mu held and
// releases it.
func (s *Store) finishLocked(ctx context.Context, op string) error {
	err := s.persistLocked(ctx)
	count := len(s.tasks)
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("", "store", fmt.Sprintf("%s: persist failed: %v", op, err))
	} else {
		s.emit(Event{Op: op, Kind: EventSaved, Count: count})
	}
	s.emit(Event{Op: op, Kind: EventChanged, Count: count})
	return err
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.tasks)
	if err != nil {
		return fmt.Errorf("marshal task list: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("write task list: %w", err)
	}
	return nil
}

func (s *Store) emit(ev Event) {
	s.mu.Lock()
	observers := slices.Clone(s.observers)
	s.mu.Unlock()
	for _, fn := range observers {
		fn(ev)
	}
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.tasks, func(t domain.Task) bool { return t.ID == id })
}

func (s *Store) newIDLocked() string {
	id := s.ids.NewID()
	for attempt := 1; attempt < maxIDAttempts && s.indexLocked(id) >= 0; attempt++ {
		id = s.ids.NewID()
	}
	base := id
	for n := 2; s.indexLocked(id) >= 0; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

func cloneTasks(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].Clone()
	}
	return out
}
