package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/smart-tasks/internal/usecase"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case MsgTasksLoaded:
		m.tasks = msg.Tasks
		m.today = msg.Today
		m.total = msg.Total
		m.setTaskItems(msg.Tasks)
		return m, nil

	case MsgStoreEvent:
		return m, tea.Batch(m.loadTasks(), m.waitForEvent())

	case MsgActionDone:
		m.status = msg.Status
		m.mode = ModeNormal
		return m, m.loadTasks()

	case MsgError:
		m.err = msg.Err
		m.mode = ModeNormal
		return m, nil

	case MsgClearError:
		m.err = nil
		return m, nil
	}

	return m, nil
}

// handleKeyMsg handles keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear messages on any key press
	m.err = nil
	m.status = ""

	switch m.mode {
	case ModeNormal:
		return m.handleNormalMode(msg)
	case ModeInputNew, ModeInputEdit, ModeInputDue:
		return m.handleInputMode(msg)
	case ModeSearch:
		return m.handleSearchMode(msg)
	case ModeConfirm:
		return m.handleConfirmMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	}

	return m, nil
}

// handleNormalMode handles keys in normal mode.
func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		if m.searchInput.Value() != "" {
			m.searchInput.Reset()
			return m, m.loadTasks()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.New):
		m.startInput(ModeInputNew, "", "What needs to be done?")
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Filter):
		m.cycleFilter()
		return m, m.loadTasks()

	case key.Matches(msg, m.keys.Sort):
		m.cycleSort()
		return m, m.loadTasks()

	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Export):
		return m, m.exportTasks()

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil
	}

	return m.handleTaskKey(msg)
}

// handleTaskKey handles keys acting on the selected task.
func (m *Model) handleTaskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task := m.SelectedTask()
	if task == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggleTask(task.ID)

	case key.Matches(msg, m.keys.Edit):
		m.editTaskID = task.ID
		m.startInput(ModeInputEdit, task.Text, "Task text")
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Priority):
		return m, m.setPriority(task.ID, string(task.Priority.Next()))

	case key.Matches(msg, m.keys.Due):
		due := ""
		if task.Due != nil {
			due = task.Due.String()
		}
		m.editTaskID = task.ID
		m.startInput(ModeInputDue, due, "YYYY-MM-DD (empty clears)")
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		m.mode = ModeConfirm
		m.confirmAction = ConfirmDelete
		m.confirmTaskID = task.ID
		return m, nil

	case key.Matches(msg, m.keys.MoveUp):
		return m, m.moveTask(task.ID, true)

	case key.Matches(msg, m.keys.MoveDown):
		return m, m.moveTask(task.ID, false)
	}

	return m, nil
}

// startInput switches to an input mode with the given initial value.
func (m *Model) startInput(mode Mode, value, placeholder string) {
	m.mode = mode
	m.textInput.Reset()
	m.textInput.Placeholder = placeholder
	m.textInput.SetValue(value)
	m.textInput.CursorEnd()
	m.textInput.Focus()
}

// handleInputMode handles keys in the text input modes.
func (m *Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = ModeNormal
		m.textInput.Blur()
		m.textInput.Reset()
		return m, nil

	case msg.Type == tea.KeyEnter:
		value := m.textInput.Value()
		m.textInput.Blur()
		switch m.mode {
		case ModeInputNew:
			if strings.TrimSpace(value) == "" {
				m.textInput.Focus()
				return m, nil
			}
			return m, m.createTask(value)
		case ModeInputEdit:
			return m, m.editText(m.editTaskID, value)
		case ModeInputDue:
			return m, m.setDue(m.editTaskID, value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// handleSearchMode handles keys in search mode. The view follows every keystroke.
func (m *Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = ModeNormal
		m.searchInput.Blur()
		m.searchInput.Reset()
		return m, m.loadTasks()

	case msg.Type == tea.KeyEnter:
		m.mode = ModeNormal
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, tea.Batch(cmd, m.loadTasks())
}

// handleConfirmMode handles keys in confirm mode.
func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), msg.String() == "n", msg.String() == "N":
		m.mode = ModeNormal
		m.confirmAction = ConfirmNone
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		action := m.confirmAction
		m.confirmAction = ConfirmNone
		switch action {
		case ConfirmNone:
			// Nothing to confirm
		case ConfirmDelete:
			return m, m.deleteTask(m.confirmTaskID)
		}
		m.mode = ModeNormal
	}

	return m, nil
}

// handleHelpMode handles keys in help mode.
func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help, m.keys.Escape, m.keys.Quit) {
		m.mode = ModeNormal
	}
	return m, nil
}

func (m *Model) createTask(text string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.AddTaskUseCase().Execute(context.Background(), usecase.AddTaskInput{Text: text})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgActionDone{Status: fmt.Sprintf("Added %q", out.Task.Text)}
	}
}

func (m *Model) toggleTask(id string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.ToggleTaskUseCase().Execute(context.Background(), usecase.ToggleTaskInput{Ref: id})
		if err != nil {
			return MsgError{Err: err}
		}
		if out.Task.Done {
			return MsgActionDone{Status: "Completed " + out.Task.Text}
		}
		return MsgActionDone{Status: "Reopened " + out.Task.Text}
	}
}

func (m *Model) editText(id, text string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.container.EditTaskUseCase().Execute(context.Background(), usecase.EditTaskInput{Ref: id, Text: &text})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgActionDone{Status: "Updated task"}
	}
}

func (m *Model) setPriority(id, priority string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.container.EditTaskUseCase().Execute(context.Background(), usecase.EditTaskInput{Ref: id, Priority: &priority})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgActionDone{Status: "Priority: " + priority}
	}
}

// setDue sets the due date, or clears it when due is blank.
func (m *Model) setDue(id, due string) tea.Cmd {
	in := usecase.EditTaskInput{Ref: id}
	if strings.TrimSpace(due) == "" {
		in.ClearDue = true
	} else {
		in.Due = &due
	}
	return func() tea.Msg {
		out, err := m.container.EditTaskUseCase().Execute(context.Background(), in)
		if err != nil {
			return MsgError{Err: err}
		}
		if out.Task.Due == nil {
			return MsgActionDone{Status: "Cleared due date"}
		}
		return MsgActionDone{Status: "Due " + out.Task.Due.String()}
	}
}

func (m *Model) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.DeleteTaskUseCase().Execute(context.Background(), usecase.DeleteTaskInput{Ref: id})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgActionDone{Status: fmt.Sprintf("Deleted %q", out.Task.Text)}
	}
}

func (m *Model) moveTask(id string, up bool) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.MoveTaskUseCase().Execute(context.Background(), usecase.MoveTaskInput{Ref: id, Up: up, Down: !up})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgActionDone{Status: fmt.Sprintf("Moved to position %d", out.Position)}
	}
}

func (m *Model) exportTasks() tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.ExportTasksUseCase().Execute(context.Background(), usecase.ExportTasksInput{})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgActionDone{Status: fmt.Sprintf("Exported %d tasks to %s", out.Count, out.Path)}
	}
}
