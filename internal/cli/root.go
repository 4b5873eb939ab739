// Package cli provides the command-line interface for smart-tasks.
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runoshun/smart-tasks/internal/app"
	"github.com/runoshun/smart-tasks/internal/tui"
)

// Command group IDs.
const (
	groupSetup = "setup"
	groupTask  = "task"
	groupData  = "data"
)

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// NewRootCommand creates the root command for smart-tasks.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "tasks",
		Short: "A small task list with priorities and due dates",
		Long: `smart-tasks keeps one ordered list of short tasks with a priority
and an optional due date. Every change is saved immediately to the
configured storage backend.

Run without a command to open the interactive list.
Run 'tasks guide' for a short overview.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.AppConfig == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupData, Title: "Backup & Restore:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	taskCmds := []*cobra.Command{
		newAddCommand(c),
		newListCommand(c),
		newShowCommand(c),
		newEditCommand(c),
		newDoneCommand(c),
		newUndoneCommand(c),
		newToggleCommand(c),
		newRmCommand(c),
		newMvCommand(c),
		newClearCommand(c),
		newTUICommand(c),
	}
	for _, cmd := range taskCmds {
		cmd.GroupID = groupTask
	}

	dataCmds := []*cobra.Command{
		newExportCommand(c),
		newImportCommand(c),
	}
	for _, cmd := range dataCmds {
		cmd.GroupID = groupData
	}

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	guideCmd := newGuideCommand(c)
	guideCmd.GroupID = groupSetup

	root.AddCommand(taskCmds...)
	root.AddCommand(dataCmds...)
	root.AddCommand(configCmd, guideCmd)

	return root
}

// launchTUI runs the interactive list until the user quits.
func launchTUI(c *app.Container) error {
	p := tea.NewProgram(tui.New(c), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
