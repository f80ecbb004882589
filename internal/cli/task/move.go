package task

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/listboard/internal/cli"
	"github.com/thenoetrevino/listboard/internal/reorder"
)

// MoveCmd returns the task move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <task>",
		Short: "Move a task within or across columns",
		Long: `Drag a task to a new place on the board.

With --to the task goes to the bottom of that column. With --at it takes
the position of another task, in that task's column, and the tasks around
it shift to make room.

Examples:
  # Move to the bottom of Doing
  listboard task move $TASK_ID --to Doing

  # Take the position of task $OTHER_ID
  listboard task move $TASK_ID --at $OTHER_ID --json
`,
		Args: cobra.ExactArgs(1),
		RunE: runMove,
	}

	cmd.Flags().String("to", "", "Column to move the task to the bottom of")
	cmd.Flags().String("at", "", "Task whose position to take")
	cmd.MarkFlagsOneRequired("to", "at")
	cmd.MarkFlagsMutuallyExclusive("to", "at")

	cli.AddOutputFlags(cmd)
	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.Formatter(cmd)

	toRef, _ := cmd.Flags().GetString("to")
	atRef, _ := cmd.Flags().GetString("at")

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

	var target reorder.Item
	if atRef != "" {
		over, err := cli.ResolveTask(b, atRef)
		if err != nil {
			return cli.Fail(formatter, err)
		}
		target = reorder.TaskItem(over.ID)
	} else {
		column, err := cli.ResolveColumn(b, toRef)
		if err != nil {
			return cli.Fail(formatter, err)
		}
		target = reorder.ColumnItem(column.ID)
	}

	from := cli.ColumnTitle(b, task.ColumnID)
	if err := b.BeginDrag(reorder.TaskItem(task.ID)); err != nil {
		return cli.Fail(formatter, err)
	}
	if err := b.DragOver(ctx, target); err != nil {
		b.CancelDrag()
		return cli.Fail(formatter, err)
	}
	if err := b.EndDrag(ctx, nil); err != nil {
		return cli.Fail(formatter, err)
	}

	moved, _ := b.Task(task.ID)
	return formatter.Success(moved, fmt.Sprintf("✓ Task '%s' moved from %s to %s (position %d)",
		moved.Content, from, cli.ColumnTitle(b, moved.ColumnID), moved.Order+1))
}
