package tui

import (
	"context"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/smart-tasks/internal/app"
	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/tasklist"
	"github.com/runoshun/smart-tasks/internal/usecase"
)

// eventBuffer is the number of store events queued before new ones are dropped.
// Every refresh re-derives the whole view, so one queued event is enough.
const eventBuffer = 16

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	err       error
	events    chan tasklist.Event

	// State (slices - contain pointers)
	tasks []domain.Task

	// Components (structs with pointers)
	keys     KeyMap
	styles   Styles
	help     help.Model
	taskList list.Model

	// Input state (large structs)
	textInput   textinput.Model
	searchInput textinput.Model

	// Strings
	status        string
	locale        string
	confirmTaskID string
	editTaskID    string
	filter        domain.Filter
	sortMode      domain.SortMode

	// Numeric state (smaller types last)
	today         domain.Date
	mode          Mode
	confirmAction ConfirmAction
	total         int
	width         int
	height        int
}

// New creates a new TUI Model with the given container.
// The model subscribes to store events so the view follows every change.
func New(c *app.Container) *Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 500

	si := textinput.New()
	si.Placeholder = "Search tasks..."
	si.CharLimit = 100

	styles := DefaultStyles()
	taskList := list.New([]list.Item{}, newTaskDelegate(styles), 0, 0)
	taskList.SetShowTitle(false)
	taskList.SetShowStatusBar(false)
	taskList.SetShowHelp(false)
	taskList.SetShowPagination(false)
	taskList.SetFilteringEnabled(false)
	taskList.DisableQuitKeybindings()

	m := &Model{
		container:   c,
		mode:        ModeNormal,
		keys:        DefaultKeyMap(),
		styles:      styles,
		help:        help.New(),
		taskList:    taskList,
		textInput:   ti,
		searchInput: si,
	}

	if c != nil && c.AppConfig != nil {
		// Invalid configured values fall back to the defaults.
		if f, err := domain.ParseFilter(c.AppConfig.View.Filter); err == nil {
			m.filter = f
		}
		if s, err := domain.ParseSortMode(c.AppConfig.View.Sort); err == nil {
			m.sortMode = s
		}
		m.locale = c.AppConfig.View.Locale
	}

	if c != nil && c.Tasks != nil {
		events := make(chan tasklist.Event, eventBuffer)
		c.Tasks.Observe(func(ev tasklist.Event) {
			select {
			case events <- ev:
			default:
			}
		})
		m.events = events
	}

	return m
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadTasks(),
		m.waitForEvent(),
	)
}

// loadTasks returns a command that derives the current view.
func (m *Model) loadTasks() tea.Cmd {
	in := usecase.ListTasksInput{
		Filter: m.filter.String(),
		Sort:   m.sortMode.String(),
		Search: m.searchInput.Value(),
		Locale: m.locale,
	}
	return func() tea.Msg {
		out, err := m.container.ListTasksUseCase().Execute(context.Background(), in)
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTasksLoaded{Tasks: out.Tasks, Today: out.Today, Total: out.Total}
	}
}

// waitForEvent returns a command that blocks until the store reports a change.
func (m *Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return MsgStoreEvent{Event: ev}
	}
}

// SelectedTask returns the currently selected task, or nil if none.
func (m *Model) SelectedTask() *domain.Task {
	item, ok := m.taskList.SelectedItem().(taskItem)
	if !ok {
		return nil
	}
	task := item.task
	return &task
}

// setTaskItems replaces the list items, keeping the selection on the same
// task when it is still visible.
func (m *Model) setTaskItems(tasks []domain.Task) {
	var selectedID string
	if t := m.SelectedTask(); t != nil {
		selectedID = t.ID
	}

	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = taskItem{task: t, today: m.today}
	}
	m.taskList.SetItems(items)

	if selectedID == "" {
		return
	}
	if idx := slices.IndexFunc(tasks, func(t domain.Task) bool { return t.ID == selectedID }); idx >= 0 {
		m.taskList.Select(idx)
	}
}

// cycleFilter advances to the next filter.
func (m *Model) cycleFilter() {
	m.filter = nextOf(domain.Filters(), m.filter)
}

// cycleSort advances to the next sort mode.
func (m *Model) cycleSort() {
	m.sortMode = nextOf(domain.SortModes(), m.sortMode)
}

// nextOf returns the element following cur in values, wrapping around.
func nextOf[T comparable](values []T, cur T) T {
	idx := slices.Index(values, cur)
	return values[(idx+1)%len(values)]
}

func (m *Model) updateLayout() {
	// Header, status line and footer take the remaining rows.
	listHeight := m.height - 9
	if listHeight < 3 {
		listHeight = 3
	}
	listWidth := m.width - 4
	if listWidth < 40 {
		listWidth = 40
	}
	m.taskList.SetSize(listWidth, listHeight)
	m.help.Width = listWidth
	m.textInput.Width = listWidth - 4
	m.searchInput.Width = listWidth - 12
}
