package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/smart-tasks/internal/domain"
)

// View renders the TUI.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.mode {
	case ModeHelp:
		content = m.viewHelp()
	case ModeNormal, ModeInputNew, ModeInputEdit, ModeInputDue, ModeSearch, ModeConfirm:
		content = m.viewMain()
	}

	return m.styles.App.Render(content)
}

// viewMain renders the main task list view.
func (m *Model) viewMain() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	// New-task input sits above the list
	if m.mode == ModeInputNew {
		b.WriteString(m.viewInput("◆ New Task"))
		b.WriteString("\n")
	}

	if m.mode == ModeSearch {
		b.WriteString(m.styles.InputPrompt.Render("Search: "))
		b.WriteString(m.searchInput.View())
		b.WriteString("\n\n")
	} else if m.searchInput.Value() != "" {
		b.WriteString(m.styles.Footer.Render("Search: "+m.searchInput.Value()) + "\n\n")
	}

	if m.err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: "+m.err.Error()) + "\n\n")
	} else if m.status != "" {
		b.WriteString(m.styles.StatusMsg.Render(m.status) + "\n\n")
	}

	b.WriteString(m.viewTaskList())

	switch m.mode {
	case ModeNormal, ModeInputNew, ModeSearch, ModeHelp:
		// No overlay for these modes
	case ModeInputEdit:
		b.WriteString("\n")
		b.WriteString(m.viewInput("◆ Edit Task"))
	case ModeInputDue:
		b.WriteString("\n")
		b.WriteString(m.viewInput("◆ Due Date"))
	case ModeConfirm:
		b.WriteString("\n")
		b.WriteString(m.viewConfirmDialog())
	}

	b.WriteString("\n")
	b.WriteString(m.viewFooter())

	return b.String()
}

// viewHeader renders the header with the task count and view controls.
func (m *Model) viewHeader() string {
	title := m.styles.HeaderText.Render("Tasks")

	info := fmt.Sprintf("showing %d of %d · filter: %s · sort: %s",
		len(m.tasks), m.total, m.filter, m.sortMode)
	rightText := m.styles.HeaderInfo.Render(info)

	headerWidth := m.width - 6 // padding
	if headerWidth < 40 {
		headerWidth = 40
	}
	spacing := headerWidth - lipgloss.Width(title) - lipgloss.Width(rightText)
	if spacing < 1 {
		spacing = 1
	}

	return m.styles.Header.Render(title + strings.Repeat(" ", spacing) + rightText)
}

// viewTaskList renders the visible tasks, or the empty state.
func (m *Model) viewTaskList() string {
	if len(m.tasks) == 0 {
		return m.viewEmptyState()
	}
	return m.styles.TaskList.Render(m.taskList.View())
}

// viewEmptyState renders the empty view message.
func (m *Model) viewEmptyState() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("  " + domain.EmptyViewMessage))
	b.WriteString("\n")
	if m.total > 0 {
		b.WriteString(m.styles.Footer.Render("  Press "))
		b.WriteString(m.styles.FooterKey.Render("f"))
		b.WriteString(m.styles.Footer.Render(" to change the filter"))
		b.WriteString("\n")
	}
	return b.String()
}

// viewInput renders the text input dialog.
func (m *Model) viewInput(title string) string {
	header := m.styles.DialogTitle.Render(title)
	input := m.textInput.View()
	hint := m.styles.FooterKey.Render("enter") + m.styles.Footer.Render(" save  ") +
		m.styles.FooterKey.Render("esc") + m.styles.Footer.Render(" cancel")

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", input, "", hint)
	return m.styles.Dialog.Render(content)
}

// viewConfirmDialog renders the confirmation dialog.
func (m *Model) viewConfirmDialog() string {
	var action, target string
	var color lipgloss.Color

	switch m.confirmAction {
	case ConfirmNone:
		return ""
	case ConfirmDelete:
		action = "Delete"
		target = "task"
		if m.container != nil && m.container.Tasks != nil {
			if task, ok := m.container.Tasks.Get(m.confirmTaskID); ok {
				target = fmt.Sprintf("%q", task.Text)
			}
		}
		color = Colors.Error
	}

	title := m.styles.DialogTitle.Foreground(color).Render(fmt.Sprintf("%s %s?", action, target))
	prompt := m.styles.DialogPrompt.Render("This action cannot be undone.")

	yesBtn := m.styles.HelpKey.Render("[ y ] Confirm")
	noBtn := m.styles.Footer.Render("[ n ] Cancel")
	buttons := lipgloss.JoinHorizontal(lipgloss.Left, yesBtn, "  ", noBtn)

	content := lipgloss.JoinVertical(lipgloss.Left, title, "", prompt, "", buttons)
	return m.styles.Dialog.BorderForeground(color).Render(content)
}

// viewFooter renders the footer with key hints.
func (m *Model) viewFooter() string {
	switch m.mode {
	case ModeNormal:
		return m.styles.Footer.Render(m.help.View(m.keys))
	case ModeSearch:
		return m.styles.Footer.Render("enter apply · esc clear")
	case ModeInputNew, ModeInputEdit, ModeInputDue, ModeConfirm, ModeHelp:
		// Hints are shown in the dialogs/views themselves
		return ""
	}
	return ""
}

// helpSectionNames labels the groups returned by KeyMap.FullHelp.
var helpSectionNames = []string{"Navigation", "Task", "View", "General"}

// viewHelp renders the help view.
func (m *Model) viewHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.HeaderText.Render("KEYBOARD SHORTCUTS"))
	b.WriteString("\n\n")

	for i, group := range m.keys.FullHelp() {
		if i < len(helpSectionNames) {
			b.WriteString(m.styles.DialogTitle.Render(helpSectionNames[i]))
			b.WriteString("\n")
		}
		for _, bind := range group {
			h := bind.Help()
			b.WriteString("  ")
			b.WriteString(m.styles.HelpKey.Width(8).Render(h.Key))
			b.WriteString(m.styles.HelpDesc.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Footer.Render("Press ? or esc to close"))

	return m.styles.Help.Render(b.String())
}
