package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/infra/backup"
	"github.com/runoshun/smart-tasks/internal/tasklist"
)

// ImportTasksInput contains the parameters for restoring a backup.
type ImportTasksInput struct {
	Path   string // Backup file to read
	Format string // json or yaml (default: by extension, then json)
}

// ImportTasksOutput contains the result of a restore.
type ImportTasksOutput struct {
	Replaced int // Number of tasks before the restore
	Count    int // Number of tasks after the restore
}

// ImportTasks is the use case for replacing the list with a backup.
type ImportTasks struct {
	tasks  *tasklist.Store
	logger domain.Logger
}

// NewImportTasks creates a new ImportTasks use case.
func NewImportTasks(tasks *tasklist.Store, logger domain.Logger) *ImportTasks {
	return &ImportTasks{tasks: tasks, logger: logger}
}

// Execute reads the backup and replaces the whole list. On any error the
// current list is left unchanged.
func (uc *ImportTasks) Execute(ctx context.Context, in ImportTasksInput) (*ImportTasksOutput, error) {
	path := strings.TrimSpace(in.Path)
	if path == "" {
		return nil, fmt.Errorf("%w: no file given", domain.ErrBackupUnreadable)
	}

	format, err := backup.DetectFormat(path, in.Format)
	if err != nil {
		return nil, err
	}

	payload, err := backup.ReadFile(path, format)
	if err != nil {
		uc.logger.Warn("", "usecase", fmt.Sprintf("import %s: %v", path, err))
		return nil, err
	}

	replaced := uc.tasks.Len()
	if err := uc.tasks.Restore(ctx, payload); err != nil {
		uc.logger.Warn("", "usecase", fmt.Sprintf("import %s: %v", path, err))
		return nil, err
	}

	count := uc.tasks.Len()
	uc.logger.Info("", "usecase", fmt.Sprintf("imported %d tasks from %s", count, path))
	return &ImportTasksOutput{Replaced: replaced, Count: count}, nil
}
