package usecase

import (
	"context"

	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/tasklist"
	"github.com/runoshun/smart-tasks/internal/usecase/shared"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	Ref string // Task id or unique id prefix
}

// ShowTaskOutput contains the task and its date status.
type ShowTaskOutput struct {
	Task     *domain.Task
	Overdue  bool // Not done and due before today
	DueToday bool // Due exactly today
}

// ShowTask is the use case for displaying a single task.
type ShowTask struct {
	tasks *tasklist.Store
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(tasks *tasklist.Store) *ShowTask {
	return &ShowTask{tasks: tasks}
}

// Execute looks up the task.
func (uc *ShowTask) Execute(_ context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.Ref)
	if err != nil {
		return nil, err
	}

	today := uc.tasks.Today()
	return &ShowTaskOutput{
		Task:     task,
		Overdue:  task.IsOverdue(today),
		DueToday: task.IsDueToday(today),
	}, nil
}
