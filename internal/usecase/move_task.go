package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/tasklist"
	"github.com/runoshun/smart-tasks/internal/usecase/shared"
)

// MoveTaskInput contains the parameters for moving a task within the list.
// Exactly one of Before, End, Up or Down must be set.
// Fields are ordered to minimize memory padding.
type MoveTaskInput struct {
	Ref    string // Task to move
	Before string // Place immediately before this task
	End    bool   // Move to the end of the list
	Up     bool   // Swap with the previous task
	Down   bool   // Swap with the next task
}

// MoveTaskOutput contains the result of moving a task.
type MoveTaskOutput struct {
	Task     *domain.Task // The moved task
	Position int          // 1-based position in list order after the move
}

// MoveTask is the use case for manual reordering.
type MoveTask struct {
	tasks *tasklist.Store
}

// NewMoveTask creates a new MoveTask use case.
func NewMoveTask(tasks *tasklist.Store) *MoveTask {
	return &MoveTask{tasks: tasks}
}

// Execute moves the task.
func (uc *MoveTask) Execute(ctx context.Context, in MoveTaskInput) (*MoveTaskOutput, error) {
	before := strings.TrimSpace(in.Before)
	n := 0
	for _, set := range []bool{before != "", in.End, in.Up, in.Down} {
		if set {
			n++
		}
	}
	if n != 1 {
		return nil, fmt.Errorf("%w: choose exactly one of --before, --end, --up, --down", domain.ErrInvalidMove)
	}

	task, err := shared.GetTask(uc.tasks, in.Ref)
	if err != nil {
		return nil, err
	}

	switch {
	case before != "":
		target, err := shared.GetTask(uc.tasks, before)
		if err != nil {
			return nil, err
		}
		if target.ID == task.ID {
			return nil, fmt.Errorf("%w: cannot move a task before itself", domain.ErrInvalidMove)
		}
		err = uc.tasks.Reorder(ctx, task.ID, target.ID)
	case in.End:
		err = uc.tasks.Reorder(ctx, task.ID, "")
	case in.Up:
		err = uc.tasks.MoveUp(ctx, task.ID)
	case in.Down:
		err = uc.tasks.MoveDown(ctx, task.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("save task list: %w", err)
	}

	return &MoveTaskOutput{Task: task, Position: position(uc.tasks.Tasks(), task.ID)}, nil
}

func position(tasks []domain.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i + 1
		}
	}
	return 0
}
