package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/tasklist"
	"github.com/runoshun/smart-tasks/internal/usecase/shared"
)

// ToggleTaskInput contains the parameters for changing completion.
type ToggleTaskInput struct {
	Done *bool  // Target state (nil = flip)
	Ref  string // Task id or unique id prefix
}

// ToggleTaskOutput contains the result of changing completion.
type ToggleTaskOutput struct {
	Task    *domain.Task // The task after the change
	Changed bool         // False when the task was already in the target state
}

// ToggleTask is the use case for marking tasks done or not done.
type ToggleTask struct {
	tasks *tasklist.Store
}

// NewToggleTask creates a new ToggleTask use case.
func NewToggleTask(tasks *tasklist.Store) *ToggleTask {
	return &ToggleTask{tasks: tasks}
}

// Execute sets or flips the completion flag.
func (uc *ToggleTask) Execute(ctx context.Context, in ToggleTaskInput) (*ToggleTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.Ref)
	if err != nil {
		return nil, err
	}

	if in.Done != nil && *in.Done == task.Done {
		return &ToggleTaskOutput{Task: task}, nil
	}

	if err := uc.tasks.Toggle(ctx, task.ID); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	updated, _ := uc.tasks.Get(task.ID)
	return &ToggleTaskOutput{Task: &updated, Changed: true}, nil
}
