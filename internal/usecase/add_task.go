// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/tasklist"
)

// AddTaskInput contains the parameters for creating a task.
type AddTaskInput struct {
	Text     string // Task text (required)
	Priority string // low, medium or high (default: medium)
	Due      string // Due date as YYYY-MM-DD (optional)
}

// AddTaskOutput contains the result of creating a task.
type AddTaskOutput struct {
	Task *domain.Task // The created task
}

// AddTask is the use case for creating a new task.
type AddTask struct {
	tasks *tasklist.Store
}

// NewAddTask creates a new AddTask use case.
func NewAddTask(tasks *tasklist.Store) *AddTask {
	return &AddTask{tasks: tasks}
}

// Execute creates a new task and appends it to the list.
func (uc *AddTask) Execute(ctx context.Context, in AddTaskInput) (*AddTaskOutput, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, domain.ErrEmptyText
	}

	priority, err := domain.ParsePriority(in.Priority)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, in.Priority)
	}

	var due *domain.Date
	if strings.TrimSpace(in.Due) != "" {
		d, err := domain.ParseDate(in.Due)
		if err != nil {
			return nil, err
		}
		due = &d
	}

	task, err := uc.tasks.Add(ctx, in.Text, priority, due)
	if err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	return &AddTaskOutput{Task: task}, nil
}
