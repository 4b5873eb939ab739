package tasklist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/runoshun/smart-tasks/internal/domain"
)

// utf8BOM is stripped from the front of restore payloads.
var utf8BOM = []byte("\xef\xbb\xbf")

// decodeTasks parses a JSON array of tasks and checks every element.
func decodeTasks(data []byte) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRestorePayload, err)
	}
	if tasks == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", domain.ErrInvalidRestorePayload)
	}
	if err := validateTasks(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// validateTasks enforces the task invariants on externally supplied data.
// Text is trimmed and a missing priority set to the default, in place.
func validateTasks(tasks []domain.Task) error {
	seen := make(map[string]bool, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		if t.ID == "" {
			return fmt.Errorf("%w: task %d has no id", domain.ErrInvalidRestorePayload, i)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidRestorePayload, t.ID)
		}
		seen[t.ID] = true

		t.Text = strings.TrimSpace(t.Text)
		if t.Text == "" {
			return fmt.Errorf("%w: task %q has empty text", domain.ErrInvalidRestorePayload, t.ID)
		}
		if t.Priority == "" {
			t.Priority = domain.DefaultPriority
		}
		if !t.Priority.IsValid() {
			return fmt.Errorf("%w: task %q has priority %q", domain.ErrInvalidRestorePayload, t.ID, t.Priority)
		}
	}
	return nil
}

// salvage is the result of leniently decoding a persisted list.
type salvage struct {
	tasks    []domain.Task
	problems []string // One entry per dropped or repaired element
	dropped  bool     // Something from the input is missing from tasks
}

// salvageTasks decodes a persisted list element by element. Elements that
// fail to decode, lack an id, repeat an earlier id or have blank text are
// dropped. A missing or unknown priority becomes the default.
func salvageTasks(data []byte) salvage {
	var raw []json.RawMessage
	if err := json.Unmarshal(bytes.TrimPrefix(data, utf8BOM), &raw); err != nil {
		return salvage{tasks: []domain.Task{}, problems: []string{err.Error()}, dropped: true}
	}
	if raw == nil {
		return salvage{tasks: []domain.Task{}, problems: []string{"expected a JSON array"}, dropped: true}
	}

	out := salvage{tasks: make([]domain.Task, 0, len(raw))}
	drop := func(format string, args ...any) {
		out.problems = append(out.problems, "dropped "+fmt.Sprintf(format, args...))
		out.dropped = true
	}
	seen := make(map[string]bool, len(raw))
	for i, elem := range raw {
		var t domain.Task
		if err := json.Unmarshal(elem, &t); err != nil {
			drop("task %d: %v", i, err)
			continue
		}
		if t.ID == "" {
			drop("task %d: no id", i)
			continue
		}
		if seen[t.ID] {
			drop("task %d: duplicate id %q", i, t.ID)
			continue
		}
		t.Text = strings.TrimSpace(t.Text)
		if t.Text == "" {
			drop("task %q: empty text", t.ID)
			continue
		}
		if !t.Priority.IsValid() {
			if t.Priority != "" {
				out.problems = append(out.problems,
					fmt.Sprintf("task %q: priority %q replaced with %q", t.ID, t.Priority, domain.DefaultPriority))
			}
			t.Priority = domain.DefaultPriority
		}
		seen[t.ID] = true
		out.tasks = append(out.tasks, t)
	}
	return out
}
