package domain

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter selects which tasks a view keeps.
type Filter string

// Valid filters.
const (
	FilterAll       Filter = ""
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
	FilterOverdue   Filter = "overdue"
	FilterToday     Filter = "today"
)

// Filters returns all filters in cycle order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted, FilterOverdue, FilterToday}
}

// ParseFilter parses a filter name. "" and "all" both select every task.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if f == "all" {
		return FilterAll, nil
	}
	if !slices.Contains(Filters(), f) {
		return "", ErrInvalidFilter
	}
	return f, nil
}

// String returns the display name of the filter.
func (f Filter) String() string {
	if f == FilterAll {
		return "all"
	}
	return string(f)
}

// Keep reports whether t passes the filter on the given day.
func (f Filter) Keep(t *Task, today Date) bool {
	switch f {
	case FilterActive:
		return !t.Done
	case FilterCompleted:
		return t.Done
	case FilterOverdue:
		return t.IsOverdue(today)
	case FilterToday:
		return t.IsDueToday(today)
	}
	return true
}

// SortMode orders a view.
type SortMode string

// Valid sort modes.
const (
	SortCreated  SortMode = ""
	SortDue      SortMode = "due"
	SortPriority SortMode = "priority"
	SortAlpha    SortMode = "alpha"
	SortManual   SortMode = "manual"
)

// SortModes returns all sort modes in cycle order.
func SortModes() []SortMode {
	return []SortMode{SortCreated, SortDue, SortPriority, SortAlpha, SortManual}
}

// ParseSortMode parses a sort mode name. "" and "created" both select creation order.
func ParseSortMode(s string) (SortMode, error) {
	m := SortMode(strings.ToLower(strings.TrimSpace(s)))
	if m == "created" {
		return SortCreated, nil
	}
	if !slices.Contains(SortModes(), m) {
		return "", ErrInvalidSort
	}
	return m, nil
}

// String returns the display name of the sort mode.
func (m SortMode) String() string {
	if m == SortCreated {
		return "created"
	}
	return string(m)
}

// EmptyViewMessage is shown in place of an empty view.
const EmptyViewMessage = "No tasks. Add something above!"

// ViewOptions are the display controls applied by DeriveView.
type ViewOptions struct {
	Locale language.Tag // Collation locale for SortAlpha (Und = English)
	Filter Filter
	Sort   SortMode
	Search string
}

// DeriveView returns the filtered, then sorted, subsequence of tasks to display.
// The input slice is never modified.
func DeriveView(tasks []Task, opts ViewOptions, today Date) []Task {
	q := strings.ToLower(strings.TrimSpace(opts.Search))

	out := make([]Task, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		if !opts.Filter.Keep(t, today) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Text), q) {
			continue
		}
		out = append(out, t.Clone())
	}

	sortTasks(out, opts)
	return out
}

func sortTasks(tasks []Task, opts ViewOptions) {
	switch opts.Sort {
	case SortManual:
		return
	case SortDue:
		slices.SortStableFunc(tasks, func(a, b Task) int {
			return compareDue(a.Due, b.Due)
		})
	case SortPriority:
		slices.SortStableFunc(tasks, func(a, b Task) int {
			return cmpInt(a.Priority.Rank(), b.Priority.Rank())
		})
	case SortAlpha:
		tag := opts.Locale
		if tag == language.Und {
			tag = language.English
		}
		c := collate.New(tag)
		slices.SortStableFunc(tasks, func(a, b Task) int {
			return c.CompareString(a.Text, b.Text)
		})
	default:
		slices.SortStableFunc(tasks, func(a, b Task) int {
			switch {
			case a.Created < b.Created:
				return -1
			case a.Created > b.Created:
				return 1
			}
			return 0
		})
	}
}

// compareDue orders dated tasks before undated ones.
func compareDue(a, b *Date) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}
