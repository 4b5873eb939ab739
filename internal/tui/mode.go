// Package tui provides the terminal user interface for smart-tasks.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal    Mode = iota // Default navigation mode
	ModeInputNew              // Text input for a new task
	ModeInputEdit             // Text input for editing the selected task
	ModeInputDue              // Due date input for the selected task
	ModeSearch                // Search input mode
	ModeConfirm               // Confirmation dialog mode
	ModeHelp                  // Help overlay mode
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeInputNew:
		return "input_new"
	case ModeInputEdit:
		return "input_edit"
	case ModeInputDue:
		return "input_due"
	case ModeSearch:
		return "search"
	case ModeConfirm:
		return "confirm"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// IsInputMode returns true if the mode accepts text input.
func (m Mode) IsInputMode() bool {
	switch m {
	case ModeInputNew, ModeInputEdit, ModeInputDue, ModeSearch:
		return true
	case ModeNormal, ModeConfirm, ModeHelp:
		return false
	}
	return false
}

// ConfirmAction represents the type of action requiring confirmation.
type ConfirmAction int

const (
	ConfirmNone   ConfirmAction = iota
	ConfirmDelete               // Delete task
)

// String returns a human-readable description of the action.
func (a ConfirmAction) String() string {
	switch a {
	case ConfirmNone:
		return ""
	case ConfirmDelete:
		return "delete"
	}
	return ""
}
