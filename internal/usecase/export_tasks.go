package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/infra/backup"
	"github.com/runoshun/smart-tasks/internal/tasklist"
)

// StdoutPath selects standard output instead of a file.
const StdoutPath = "-"

// ExportTasksInput contains the parameters for exporting the list.
type ExportTasksInput struct {
	Stdout io.Writer // Destination when Path is "-"
	Path   string    // Destination file (default: backup file from config)
	Format string    // json or yaml (default: by extension, then json)
}

// ExportTasksOutput contains the result of an export.
type ExportTasksOutput struct {
	Path   string        // File written ("-" for stdout)
	Format backup.Format // Format written
	Count  int           // Number of tasks exported
}

// ExportTasks is the use case for writing a backup file.
type ExportTasks struct {
	tasks       *tasklist.Store
	logger      domain.Logger
	defaultPath string
}

// NewExportTasks creates a new ExportTasks use case.
// defaultPath is used when the input leaves Path empty.
func NewExportTasks(tasks *tasklist.Store, logger domain.Logger, defaultPath string) *ExportTasks {
	if defaultPath == "" {
		defaultPath = domain.DefaultBackupFile
	}
	return &ExportTasks{tasks: tasks, logger: logger, defaultPath: defaultPath}
}

// Execute encodes the whole list and writes it out.
func (uc *ExportTasks) Execute(_ context.Context, in ExportTasksInput) (*ExportTasksOutput, error) {
	path := strings.TrimSpace(in.Path)
	if path == "" {
		path = uc.defaultPath
	}

	format, err := backup.DetectFormat(path, in.Format)
	if err != nil {
		return nil, err
	}

	tasks := uc.tasks.Tasks()
	var data []byte
	if format == backup.FormatJSON {
		data, err = uc.tasks.Export()
	} else {
		data, err = backup.Encode(tasks, format)
	}
	if err != nil {
		return nil, err
	}
	if format == backup.FormatJSON {
		data = append(data, '\n')
	}

	if path == StdoutPath {
		if in.Stdout == nil {
			return nil, errors.New("export to stdout: no writer")
		}
		if _, err := in.Stdout.Write(data); err != nil {
			return nil, fmt.Errorf("write backup: %w", err)
		}
	} else if err := backup.WriteFile(path, data); err != nil {
		return nil, err
	}

	uc.logger.Info("", "usecase", fmt.Sprintf("exported %d tasks to %s (%s)", len(tasks), path, format))
	return &ExportTasksOutput{Path: path, Format: format, Count: len(tasks)}, nil
}
