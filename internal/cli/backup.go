package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/smart-tasks/internal/app"
	"github.com/runoshun/smart-tasks/internal/usecase"
)

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the list to a backup file",
		Long: `Write the whole list to a backup file.

The default file name comes from [backup] file in the config
(smart-tasks-backup.json unless changed). Use "-" for standard output.

The format is JSON (a pretty-printed array) unless --format yaml is
given or the file name ends in .yaml or .yml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.ExportTasksInput{
				Format: format,
				Stdout: cmd.OutOrStdout(),
			}
			if len(args) == 1 {
				input.Path = args[0]
			}

			out, err := c.ExportTasksUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			if out.Path != usecase.StdoutPath {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", countLabel(out.Count), out.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Backup format: json or yaml")

	return cmd
}

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the list with a backup file",
		Long: `Replace the whole list with the contents of a backup file.

The file must hold an array of tasks. When it cannot be read or is not
a valid task array, the current list is left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ImportTasksUseCase().Execute(cmd.Context(), usecase.ImportTasksInput{
				Path:   args[0],
				Format: format,
			})
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (replaced %d)\n", countLabel(out.Count), out.Replaced)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Backup format: json or yaml (default: by extension)")

	return cmd
}
