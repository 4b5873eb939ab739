package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/tasklist"
	"github.com/runoshun/smart-tasks/internal/usecase/shared"
)

// EditTaskInput contains the parameters for editing a task.
// Nil fields are left unchanged.
// Fields are ordered to minimize memory padding.
type EditTaskInput struct {
	Text     *string // New text (must not be blank)
	Priority *string // New priority
	Due      *string // New due date (YYYY-MM-DD)
	Ref      string  // Task id or unique id prefix
	ClearDue bool    // Remove the due date
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task *domain.Task // The updated task
}

// EditTask is the use case for editing a task.
type EditTask struct {
	tasks *tasklist.Store
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(tasks *tasklist.Store) *EditTask {
	return &EditTask{tasks: tasks}
}

// Execute updates the task with the given fields.
func (uc *EditTask) Execute(ctx context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	if in.Text == nil && in.Priority == nil && in.Due == nil && !in.ClearDue {
		return nil, domain.ErrNoFieldsToUpdate
	}

	task, err := shared.GetTask(uc.tasks, in.Ref)
	if err != nil {
		return nil, err
	}

	patch, err := buildPatch(in)
	if err != nil {
		return nil, err
	}

	if err := uc.tasks.Update(ctx, task.ID, patch); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	updated, _ := uc.tasks.Get(task.ID)
	return &EditTaskOutput{Task: &updated}, nil
}

func buildPatch(in EditTaskInput) (domain.TaskPatch, error) {
	var patch domain.TaskPatch

	if in.Text != nil {
		if strings.TrimSpace(*in.Text) == "" {
			return patch, domain.ErrEmptyText
		}
		patch.Text = in.Text
	}

	if in.Priority != nil {
		if strings.TrimSpace(*in.Priority) == "" {
			return patch, fmt.Errorf("%w: empty", domain.ErrInvalidPriority)
		}
		p, err := domain.ParsePriority(*in.Priority)
		if err != nil {
			return patch, fmt.Errorf("%w: %q", err, *in.Priority)
		}
		patch.Priority = &p
	}

	if in.Due != nil && !in.ClearDue {
		d, err := domain.ParseDate(*in.Due)
		if err != nil {
			return patch, err
		}
		patch.Due = &d
	}
	patch.ClearDue = in.ClearDue

	return patch, nil
}
