// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/smart-tasks/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// SequenceIDs is a deterministic domain.IDGenerator yielding t1, t2, ...
type SequenceIDs struct {
	Prefix string
	n      int
}

// NewID returns the next id in the sequence.
func (s *SequenceIDs) NewID() string {
	s.n++
	prefix := s.Prefix
	if prefix == "" {
		prefix = "t"
	}
	return fmt.Sprintf("%s%d", prefix, s.n)
}

// FixedIDs returns the same id every time. It exercises collision handling.
type FixedIDs struct {
	ID string
}

// NewID returns the fixed id.
func (f FixedIDs) NewID() string {
	return f.ID
}

// MockKV is an in-memory domain.KVStore.
// Fields are ordered to minimize memory padding.
type MockKV struct {
	Data      map[string][]byte
	GetErr    error
	SetErr    error
	DeleteErr error
	SetCalls  int
	mu        sync.Mutex
}

// NewMockKV creates an empty MockKV.
func NewMockKV() *MockKV {
	return &MockKV{Data: make(map[string][]byte)}
}

// Get returns the stored value or domain.ErrKeyNotFound.
func (m *MockKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	v, ok := m.Data[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value.
func (m *MockKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key.
func (m *MockKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Data, key)
	return nil
}

// Close is a no-op.
func (m *MockKV) Close() error {
	return nil
}

// LogEntry is one line captured by MockLogger.
type LogEntry struct {
	Level    string
	TaskID   string
	Category string
	Msg      string
}

// MockLogger records log calls.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) add(level, taskID, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Debug records a debug entry.
func (m *MockLogger) Debug(taskID, category, msg string) { m.add("debug", taskID, category, msg) }

// Info records an info entry.
func (m *MockLogger) Info(taskID, category, msg string) { m.add("info", taskID, category, msg) }

// Warn records a warning entry.
func (m *MockLogger) Warn(taskID, category, msg string) { m.add("warn", taskID, category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(taskID, category, msg string) { m.add("error", taskID, category, msg) }

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

var (
	_ domain.Clock       = (*MockClock)(nil)
	_ domain.IDGenerator = (*SequenceIDs)(nil)
	_ domain.KVStore     = (*MockKV)(nil)
	_ domain.Logger      = (*MockLogger)(nil)
)
