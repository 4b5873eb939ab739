package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/smart-tasks/internal/app"
	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/infra/idgen"
	"github.com/runoshun/smart-tasks/internal/usecase"
)

// newAddCommand creates the add command for creating tasks.
func newAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Priority string
		Due      string
	}

	cmd := &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a task",
		Long: `Add a task to the end of the list.

All arguments are joined with spaces to form the task text.
Leading and trailing whitespace is removed; blank text is rejected.

Examples:
  # Add a task with default priority (medium)
  tasks add Buy milk

  # Add a high-priority task due on a given day
  tasks add "Pay rent" --priority high --due 2024-03-01`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.AddTaskUseCase().Execute(cmd.Context(), usecase.AddTaskInput{
				Text:     strings.Join(args, " "),
				Priority: opts.Priority,
				Due:      opts.Due,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added task %s: %s\n", idgen.Short(out.Task.ID), out.Task.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "Priority: low, medium or high (default medium)")
	cmd.Flags().StringVarP(&opts.Due, "due", "d", "", "Due date (YYYY-MM-DD)")

	return cmd
}

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Filter string
		Sort   string
		Search string
		JSON   bool
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `Display the task list.

The filter is applied first, then the search, then the sort.
Defaults for --filter and --sort come from the [view] config section.

Output format is tab-separated with columns:
  ID, DONE, PRIORITY, DUE, TEXT

DUE is marked with "!" when the task is overdue and "(today)" when it is due today.

Examples:
  # Everything, oldest first
  tasks list

  # Unfinished tasks, most urgent first
  tasks list --filter active --sort priority

  # Overdue tasks mentioning "rent"
  tasks list --filter overdue --search rent`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.ListTasksInput{
				Filter: opts.Filter,
				Sort:   opts.Sort,
				Search: opts.Search,
			}
			if c.AppConfig != nil {
				if !cmd.Flags().Changed("filter") {
					input.Filter = c.AppConfig.View.Filter
				}
				if !cmd.Flags().Changed("sort") {
					input.Sort = c.AppConfig.View.Sort
				}
				input.Locale = c.AppConfig.View.Locale
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.JSON {
				return printTasksJSON(w, out.Tasks)
			}
			printTaskList(w, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Filter, "filter", "f", "", "Filter: all, active, completed, overdue, today")
	cmd.Flags().StringVarP(&opts.Sort, "sort", "s", "", "Sort: created, due, priority, alpha, manual")
	cmd.Flags().StringVarP(&opts.Search, "search", "q", "", "Case-insensitive text search")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the view as a JSON array")

	return cmd
}

// printTaskList prints the view in TSV format followed by the total count.
func printTaskList(w io.Writer, out *usecase.ListTasksOutput) {
	if len(out.Tasks) == 0 {
		_, _ = fmt.Fprintln(w, domain.EmptyViewMessage)
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)

		// Header
		_, _ = fmt.Fprintln(tw, "ID\tDONE\tPRIORITY\tDUE\tTEXT")

		// Rows
		for i := range out.Tasks {
			task := &out.Tasks[i]
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				idgen.Short(task.ID),
				checkbox(task.Done),
				task.Priority,
				formatDue(task, out.Today),
				task.Text,
			)
		}
		_ = tw.Flush()
	}

	_, _ = fmt.Fprintf(w, "\n%s\n", countLabel(out.Total))
}

func printTasksJSON(w io.Writer, tasks []domain.Task) error {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// formatDue renders the due date with its overdue/today marker.
func formatDue(task *domain.Task, today domain.Date) string {
	if task.Due == nil {
		return "-"
	}
	switch {
	case task.IsOverdue(today):
		return task.Due.String() + " !"
	case task.IsDueToday(today):
		return task.Due.String() + " (today)"
	}
	return task.Due.String()
}

func countLabel(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}

// newShowCommand creates the show command.
func newShowCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Long: `Show every field of a task.

The id may be abbreviated to any unique prefix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{Ref: args[0]})
			if err != nil {
				return err
			}
			printTaskDetails(cmd.OutOrStdout(), out)
			return nil
		},
	}
	return cmd
}

func printTaskDetails(w io.Writer, out *usecase.ShowTaskOutput) {
	task := out.Task

	_, _ = fmt.Fprintf(w, "# Task %s\n\n", task.ID)
	_, _ = fmt.Fprintf(w, "%s\n\n", task.Text)

	status := "open"
	if task.Done {
		status = "done"
	}
	_, _ = fmt.Fprintf(w, "Status: %s\n", status)
	_, _ = fmt.Fprintf(w, "Priority: %s\n", task.Priority)

	switch {
	case task.Due == nil:
		_, _ = fmt.Fprintln(w, "Due: none")
	case out.Overdue:
		_, _ = fmt.Fprintf(w, "Due: %s (overdue)\n", task.Due)
	case out.DueToday:
		_, _ = fmt.Fprintf(w, "Due: %s (today)\n", task.Due)
	default:
		_, _ = fmt.Fprintf(w, "Due: %s\n", task.Due)
	}

	_, _ = fmt.Fprintf(w, "Created: %s\n", task.CreatedAt().Format(time.RFC3339))
}

// newEditCommand creates the edit command.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Text     string
		Priority string
		Due      string
		NoDue    bool
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Change the text, priority or due date of a task.

Only the given flags are changed. At least one is required.

Examples:
  tasks edit 3fa8 --text "Buy oat milk"
  tasks edit 3fa8 --priority low --due 2024-04-01
  tasks edit 3fa8 --no-due`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.EditTaskInput{
				Ref:      args[0],
				ClearDue: opts.NoDue,
			}
			if cmd.Flags().Changed("text") {
				input.Text = &opts.Text
			}
			if cmd.Flags().Changed("priority") {
				input.Priority = &opts.Priority
			}
			if cmd.Flags().Changed("due") {
				input.Due = &opts.Due
			}

			out, err := c.EditTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", idgen.Short(out.Task.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Text, "text", "", "New task text")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "New priority: low, medium or high")
	cmd.Flags().StringVarP(&opts.Due, "due", "d", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&opts.NoDue, "no-due", false, "Remove the due date")
	cmd.MarkFlagsMutuallyExclusive("due", "no-due")

	return cmd
}

// newDoneCommand creates the done command.
func newDoneCommand(c *app.Container) *cobra.Command {
	done := true
	return newCompletionCommand(c, "done <id>", "Mark a task as done", &done)
}

// newUndoneCommand creates the undone command.
func newUndoneCommand(c *app.Container) *cobra.Command {
	done := false
	return newCompletionCommand(c, "undone <id>", "Mark a task as not done", &done)
}

// newToggleCommand creates the toggle command.
func newToggleCommand(c *app.Container) *cobra.Command {
	return newCompletionCommand(c, "toggle <id>", "Flip the completion of a task", nil)
}

func newCompletionCommand(c *app.Container, use, short string, done *bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ToggleTaskUseCase().Execute(cmd.Context(), usecase.ToggleTaskInput{
				Ref:  args[0],
				Done: done,
			})
			if err != nil {
				return err
			}

			state := "open"
			if out.Task.Done {
				state = "done"
			}
			w := cmd.OutOrStdout()
			if !out.Changed {
				_, _ = fmt.Fprintf(w, "Task %s is already %s\n", idgen.Short(out.Task.ID), state)
				return nil
			}
			_, _ = fmt.Fprintf(w, "Task %s is now %s\n", idgen.Short(out.Task.ID), state)
			return nil
		},
	}
}

// newRmCommand creates the rm command.
func newRmCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{Ref: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", idgen.Short(out.Task.ID), out.Task.Text)
			return nil
		},
	}
	return cmd
}

// newMvCommand creates the mv command for manual reordering.
func newMvCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Before string
		End    bool
		Up     bool
		Down   bool
	}

	cmd := &cobra.Command{
		Use:   "mv <id>",
		Short: "Move a task within the list",
		Long: `Change the position of a task in list order.

List order is what 'tasks list --sort manual' shows.

Examples:
  tasks mv 3fa8 --before 91c2
  tasks mv 3fa8 --end
  tasks mv 3fa8 --up`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.MoveTaskUseCase().Execute(cmd.Context(), usecase.MoveTaskInput{
				Ref:    args[0],
				Before: opts.Before,
				End:    opts.End,
				Up:     opts.Up,
				Down:   opts.Down,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s to position %d\n", idgen.Short(out.Task.ID), out.Position)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Before, "before", "", "Place immediately before this task")
	cmd.Flags().BoolVar(&opts.End, "end", false, "Move to the end of the list")
	cmd.Flags().BoolVar(&opts.Up, "up", false, "Move one position up")
	cmd.Flags().BoolVar(&opts.Down, "down", false, "Move one position down")

	return cmd
}

// newClearCommand creates the clear command.
func newClearCommand(c *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		Long: `Delete every task in the list. This cannot be undone.

Consider 'tasks export' first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if !yes {
				_, _ = fmt.Fprintf(w, "Delete all %s? [y/N] ", countLabel(c.Tasks.Len()))
				var response string
				if _, scanErr := fmt.Fscanln(cmd.InOrStdin(), &response); scanErr != nil {
					// If scan fails (e.g. EOF), assume no
					_, _ = fmt.Fprintln(w, "\nAborted.")
					return nil
				}
				if strings.ToLower(strings.TrimSpace(response)) != "y" {
					_, _ = fmt.Fprintln(w, "Aborted.")
					return nil
				}
			}

			out, err := c.ClearTasksUseCase().Execute(cmd.Context(), usecase.ClearTasksInput{})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(w, "Deleted %s.\n", countLabel(out.Removed))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}
