// Package shared holds helpers used by several use cases.
package shared

import (
	"errors"
	"fmt"

	"github.com/runoshun/smart-tasks/internal/domain"
)

// TaskResolver looks up a task by id or unique id prefix.
type TaskResolver interface {
	Resolve(ref string) (domain.Task, error)
}

// GetTask resolves ref and returns domain.ErrTaskNotFound if nothing matches.
// This centralizes the common pattern of:
//
//	task, err := store.Resolve(ref)
//	if err != nil { return nil, fmt.Errorf("get task: %w", err) }
func GetTask(tasks TaskResolver, ref string) (*domain.Task, error) {
	task, err := tasks.Resolve(ref)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) || errors.Is(err, domain.ErrAmbiguousRef) {
			return nil, err
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}
