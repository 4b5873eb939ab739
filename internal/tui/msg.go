package tui

import (
	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/tasklist"
)

// Msg is the sealed interface for all TUI messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgTasksLoaded is sent when the view has been derived from the store.
// Fields are ordered to minimize memory padding.
type MsgTasksLoaded struct {
	Tasks []domain.Task
	Today domain.Date
	Total int
}

func (MsgTasksLoaded) sealed() {}

// MsgStoreEvent is sent when the task store reports a change.
type MsgStoreEvent struct {
	Event tasklist.Event
}

func (MsgStoreEvent) sealed() {}

// MsgActionDone is sent when a task action completes.
type MsgActionDone struct {
	Status string
}

func (MsgActionDone) sealed() {}

// MsgError is sent when an error occurs.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}

// MsgClearError is sent to clear the current error.
type MsgClearError struct{}

func (MsgClearError) sealed() {}
