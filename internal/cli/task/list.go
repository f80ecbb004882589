package task

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/listboard/internal/cli"
	"github.com/thenoetrevino/listboard/internal/models"
)

// ListCmd returns the task list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [column]",
		Short: "List tasks",
		Long: `List tasks in board order, optionally for a single column.

Examples:
  listboard task list
  listboard task list Doing --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runList,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return cli.Fail(formatter, err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	b, err := cliInstance.Board(ctx)
	if err != nil {
		return cli.Fail(formatter, err)
	}

	columns := b.Columns()
	if len(args) == 1 {
		column, err := cli.ResolveColumn(b, args[0])
		if err != nil {
			return cli.Fail(formatter, err)
		}
		columns = []models.Column{column}
	}

	tasks := []models.Task{}
	var sb strings.Builder
	for _, col := range columns {
		colTasks := b.Tasks(col.ID)
		tasks = append(tasks, colTasks...)

		fmt.Fprintf(&sb, "%s (%d):\n", col.Title, len(colTasks))
		if len(colTasks) == 0 {
			sb.WriteString("  No tasks\n")
		}
		for _, task := range colTasks {
			fmt.Fprintf(&sb, "  %d. %s  [%s]\n", task.Order+1, task.Content, task.ID)
		}
	}

	// Quiet mode prints one ID per line
	if formatter.Quiet {
		for _, task := range tasks {
			fmt.Println(task.ID)
		}
		return nil
	}

	return formatter.Success(tasks, strings.TrimRight(sb.String(), "\n"))
}
