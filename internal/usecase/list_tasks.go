package usecase

import (
	"context"
	"strings"

	"golang.org/x/text/language"

	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/tasklist"
)

// ListTasksInput contains the display controls for listing tasks.
// Empty values select the defaults (all tasks, creation order).
type ListTasksInput struct {
	Filter string // all, active, completed, overdue or today
	Sort   string // created, due, priority, alpha or manual
	Search string // Case-insensitive substring of the task text
	Locale string // BCP 47 tag used for alpha sorting (default: en)
}

// ListTasksOutput contains the derived view.
// Fields are ordered to minimize memory padding.
type ListTasksOutput struct {
	Tasks  []domain.Task   // Visible tasks in display order
	Filter domain.Filter   // Applied filter
	Sort   domain.SortMode // Applied sort
	Today  domain.Date     // Day the view was derived for
	Total  int             // Number of tasks in the whole list
}

// ListTasks is the use case for deriving the visible task list.
type ListTasks struct {
	tasks *tasklist.Store
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks *tasklist.Store) *ListTasks {
	return &ListTasks{tasks: tasks}
}

// Execute parses the display controls and derives the view.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	opts, err := ParseViewOptions(in.Filter, in.Sort, in.Search, in.Locale)
	if err != nil {
		return nil, err
	}

	return &ListTasksOutput{
		Tasks:  uc.tasks.View(opts),
		Filter: opts.Filter,
		Sort:   opts.Sort,
		Today:  uc.tasks.Today(),
		Total:  uc.tasks.Len(),
	}, nil
}

// ParseViewOptions converts user-supplied display controls into view options.
// An unrecognized locale falls back to English collation.
func ParseViewOptions(filter, sort, search, locale string) (domain.ViewOptions, error) {
	f, err := domain.ParseFilter(filter)
	if err != nil {
		return domain.ViewOptions{}, err
	}
	m, err := domain.ParseSortMode(sort)
	if err != nil {
		return domain.ViewOptions{}, err
	}

	tag := language.English
	if locale = strings.TrimSpace(locale); locale != "" {
		if t, err := language.Parse(locale); err == nil {
			tag = t
		}
	}

	return domain.ViewOptions{
		Locale: tag,
		Filter: f,
		Sort:   m,
		Search: search,
	}, nil
}
