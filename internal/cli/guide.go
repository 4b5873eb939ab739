package cli

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/runoshun/smart-tasks/internal/app"
	"github.com/runoshun/smart-tasks/internal/domain"
)

// newGuideCommand creates the guide command printing the usage overview.
// With --style the markdown is rendered for the terminal.
func newGuideCommand(c *app.Container) *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "guide",
		Short: "Show a short usage guide",
		Long: `Show a short usage guide.

The guide is markdown. Pass --style (dark, light, notty, or a JSON style
file) to render it for the terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backupFile := ""
			if c != nil && c.AppConfig != nil {
				backupFile = c.AppConfig.Backup.File
			}
			guide, err := domain.RenderUsage(domain.NewHelpData(backupFile))
			if err != nil {
				return err
			}
			if style != "" {
				guide, err = glamour.Render(guide, style)
				if err != nil {
					return fmt.Errorf("render guide: %w", err)
				}
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), guide)
			return err
		},
	}

	cmd.Flags().StringVar(&style, "style", "", "Render markdown with a glamour style")
	return cmd
}
