package task

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/listboard/internal/board"
	"github.com/thenoetrevino/listboard/internal/cli"
	"github.com/thenoetrevino/listboard/internal/models"
)

// AddCmd returns the task add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <column> <content>",
		Short: "Add a task to the bottom of a column",
		Long: `Add a task with the given content to the bottom of a column.
The column may be given by ID or by title.

Examples:
  listboard task add Todo "Write release notes"
  listboard task add Todo Write release notes --json

  # Quiet mode for bash capture
  TASK_ID=$(listboard task add Doing "Fix login" --quiet)
`,
		Args: cobra.MinimumNArgs(2),
		RunE: runAdd,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

// CreateCmd returns the task create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <column>",
		Short: "Create a placeholder task",
		Long: `Create a task named "New Task N", where N is one more than the number
of tasks on the board. Rename it later with 'listboard task edit'.

Examples:
  listboard task create Todo
  listboard task create Todo --quiet
`,
		Args: cobra.ExactArgs(1),
		RunE: runCreate,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	content := strings.Join(args[1:], " ")
	return insert(cmd, args[0], func(ctx context.Context, b *board.Store, col models.Column) (models.Task, error) {
		return b.AddTask(ctx, col.ID, content)
	})
}

func runCreate(cmd *cobra.Command, args []string) error {
	return insert(cmd, args[0], func(ctx context.Context, b *board.Store, col models.Column) (models.Task, error) {
		return b.CreateTask(ctx, col.ID)
	})
}

// insert resolves the column and reports the task created by fn
func insert(cmd *cobra.Command, columnRef string, fn func(context.Context, *board.Store, models.Column) (models.Task, error)) error {
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

	column, err := cli.ResolveColumn(b, columnRef)
	if err != nil {
		return cli.Fail(formatter, err)
	}

	task, err := fn(ctx, b, column)
	if err != nil {
		return cli.Fail(formatter, err)
	}

	return formatter.Success(task,
		fmt.Sprintf("✓ Task '%s' added to %s (ID: %s)", task.Content, column.Title, task.ID))
}
