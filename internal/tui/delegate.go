package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/runoshun/smart-tasks/internal/domain"
)

// dueMarkerWidth is the column reserved for the due marker.
const dueMarkerWidth = 14

type taskItem struct {
	task  domain.Task
	today domain.Date
}

func (t taskItem) FilterValue() string {
	return t.task.Text
}

// escapeNewlines replaces newline characters with spaces for single-line display.
func escapeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// dueMarker returns the due column text: a warning for overdue tasks,
// "today" for tasks due today, otherwise the date itself.
func dueMarker(task *domain.Task, today domain.Date) string {
	switch {
	case task.Due == nil:
		return ""
	case task.IsOverdue(today):
		return "⚠ " + task.Due.String()
	case task.IsDueToday(today):
		return "● today"
	default:
		return task.Due.String()
	}
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

type taskDelegate struct {
	styles Styles
}

func newTaskDelegate(styles Styles) taskDelegate {
	return taskDelegate{styles: styles}
}

func (d taskDelegate) Height() int {
	return 1
}

func (d taskDelegate) Spacing() int {
	return 0
}

func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d taskDelegate) dueStyle(task *domain.Task, today domain.Date) func(...string) string {
	switch {
	case task.IsOverdue(today):
		return d.styles.Overdue.Render
	case task.IsDueToday(today):
		return d.styles.DueToday.Render
	default:
		return d.styles.Due.Render
	}
}

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(taskItem)
	if !ok {
		return
	}
	task := ti.task
	selected := index == m.Index()

	indicatorChar := " "
	if selected {
		indicatorChar = ">"
	}

	// "  > [x] !!!  " + text + "  " + due
	prefixWidth := 13
	listWidth := m.Width()
	maxTextLen := listWidth - prefixWidth - dueMarkerWidth - 2
	if maxTextLen < 10 {
		maxTextLen = 10
	}

	text := escapeNewlines(task.Text)
	if runewidth.StringWidth(text) > maxTextLen {
		text = runewidth.Truncate(text, maxTextLen, "...")
	}
	text = runewidth.FillRight(text, maxTextLen)

	box := d.styles.Checkbox.Render(checkbox(task.Done))
	if task.Done {
		box = d.styles.CheckboxDone.Render(checkbox(task.Done))
	}

	textStyle := d.styles.TaskTitle
	switch {
	case task.Done:
		textStyle = d.styles.TaskDone
	case selected:
		textStyle = d.styles.TaskTitleSelected
	}

	indicator := d.styles.SelectionIndicator.Render(indicatorChar)
	priority := d.styles.PriorityStyle(task.Priority).Render(PriorityIcon(task.Priority))
	if selected {
		indicator = d.styles.SelectionIndicator.Bold(true).Render(indicatorChar)
	}

	line := "  " + indicator + " " + box + " " + priority + "  " + textStyle.Render(text)
	if marker := dueMarker(&task, ti.today); marker != "" {
		line += "  " + d.dueStyle(&task, ti.today)(marker)
	}
	_, _ = fmt.Fprint(w, line)
}
