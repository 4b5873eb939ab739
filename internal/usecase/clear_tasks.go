package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/tasklist"
)

// ClearTasksInput contains the input for the ClearTasks use case.
type ClearTasksInput struct{}

// ClearTasksOutput contains the result of clearing the list.
type ClearTasksOutput struct {
	Removed int // Number of tasks removed
}

// ClearTasks is the use case for removing every task.
// Confirmation is the caller's responsibility.
type ClearTasks struct {
	tasks  *tasklist.Store
	logger domain.Logger
}

// NewClearTasks creates a new ClearTasks use case.
func NewClearTasks(tasks *tasklist.Store, logger domain.Logger) *ClearTasks {
	return &ClearTasks{tasks: tasks, logger: logger}
}

// Execute empties the list.
func (uc *ClearTasks) Execute(ctx context.Context, _ ClearTasksInput) (*ClearTasksOutput, error) {
	removed := uc.tasks.Len()
	if err := uc.tasks.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clear tasks: %w", err)
	}
	uc.logger.Warn("", "usecase", fmt.Sprintf("cleared %d tasks", removed))
	return &ClearTasksOutput{Removed: removed}, nil
}
