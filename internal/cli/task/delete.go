package task

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/listboard/internal/cli"
)

// DeleteCmd returns the task delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <task>",
		Short: "Delete a task and its comments",
		Long: `Delete a task. Its comments go with it and the tasks below it move up.

Examples:
  listboard task delete $TASK_ID
`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

// ClearCmd returns the task clear subcommand
func ClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear <column>",
		Short: "Delete every task in a column",
		Long: `Delete every task in a column along with their comments.
The column itself is kept.

Examples:
  listboard task clear Done
`,
		Args: cobra.ExactArgs(1),
		RunE: runClear,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	task, err := cli.ResolveTask(b, args[0])
	if err != nil {
		return cli.Fail(formatter, err)
	}

	if err := b.DeleteTask(ctx, task.ID); err != nil {
		return cli.Fail(formatter, err)
	}

	return formatter.Success(task, fmt.Sprintf("✓ Task '%s' deleted", task.Content))
}

func runClear(cmd *cobra.Command, args []string) error {
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

	column, err := cli.ResolveColumn(b, args[0])
	if err != nil {
		return cli.Fail(formatter, err)
	}
	removed := len(b.Tasks(column.ID))

	if err := b.DeleteAllTasks(ctx, column.ID); err != nil {
		return cli.Fail(formatter, err)
	}

	return formatter.Success(column, fmt.Sprintf("✓ Cleared %d tasks from %s", removed, column.Title))
}
