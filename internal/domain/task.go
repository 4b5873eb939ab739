// Package domain contains core business entities and interfaces.
package domain

import (
	"strings"
	"time"
)

// Priority is the urgency of a task.
type Priority string

// Valid priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is assigned when none is given.
const DefaultPriority = PriorityMedium

// unknownPriorityRank places unrecognized priorities after every known one.
const unknownPriorityRank = 9

// Priorities returns all valid priorities in display order.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority parses a priority name. Matching is case-insensitive and
// the empty string yields the default priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return DefaultPriority, nil
	}
	if !p.IsValid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank returns the sort rank: high=0, medium=1, low=2, anything else last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return unknownPriorityRank
}

// Next returns the priority following p in the low → medium → high cycle.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	}
	return PriorityLow
}

// Task is a single list item.
// Field order matches the persisted JSON layout.
type Task struct {
	ID       string   `json:"id" yaml:"id"`             // Opaque unique identifier
	Text     string   `json:"text" yaml:"text"`         // Trimmed, never empty
	Done     bool     `json:"done" yaml:"done"`         // Completion flag
	Created  int64    `json:"created" yaml:"created"`   // Milliseconds since epoch
	Priority Priority `json:"priority" yaml:"priority"` // low, medium or high
	Due      *Date    `json:"due" yaml:"due"`           // Due date (nil = none)
}

// CreatedAt returns the creation time.
func (t *Task) CreatedAt() time.Time {
	return time.UnixMilli(t.Created)
}

// IsOverdue reports whether the task is incomplete and due strictly before today.
func (t *Task) IsOverdue(today Date) bool {
	return !t.Done && t.Due != nil && t.Due.Before(today)
}

// IsDueToday reports whether the task is due exactly on today.
func (t *Task) IsDueToday(today Date) bool {
	return t.Due != nil && t.Due.Equal(today)
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	if t.Due != nil {
		d := *t.Due
		t.Due = &d
	}
	return t
}

// TaskPatch describes a partial update. Nil fields are left untouched.
// Fields are ordered to minimize memory padding.
type TaskPatch struct {
	Text     *string   // New text (trimmed; blank is ignored)
	Done     *bool     // New completion flag
	Priority *Priority // New priority
	Due      *Date     // New due date
	ClearDue bool      // Remove the due date (wins over Due)
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Text == nil && p.Done == nil && p.Priority == nil && p.Due == nil && !p.ClearDue
}

// Apply merges the patch into t. It reports whether any field was written.
func (p TaskPatch) Apply(t *Task) bool {
	changed := false
	if p.Text != nil {
		if text := strings.TrimSpace(*p.Text); text != "" {
			t.Text = text
			changed = true
		}
	}
	if p.Done != nil {
		t.Done = *p.Done
		changed = true
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
		changed = true
	}
	switch {
	case p.ClearDue:
		t.Due = nil
		changed = true
	case p.Due != nil:
		d := *p.Due
		t.Due = &d
		changed = true
	}
	return changed
}
