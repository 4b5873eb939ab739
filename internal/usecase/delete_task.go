package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/tasklist"
	"github.com/runoshun/smart-tasks/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	Ref string // Task id or unique id prefix
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	Task *domain.Task // The removed task
}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	tasks *tasklist.Store
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks *tasklist.Store) *DeleteTask {
	return &DeleteTask{tasks: tasks}
}

// Execute removes the task from the list.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.Ref)
	if err != nil {
		return nil, err
	}

	if err := uc.tasks.Delete(ctx, task.ID); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}

	return &DeleteTaskOutput{Task: task}, nil
}
