package task

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/listboard/internal/cli"
)

// EditCmd returns the task edit subcommand
func EditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <task> <content>",
		Short: "Change a task's content",
		Long: `Replace a task's content. The task may be given by ID or by a unique ID prefix.

Examples:
  listboard task edit $TASK_ID "Write release notes for v2"
`,
		Args: cobra.MinimumNArgs(2),
		RunE: runEdit,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

// DescribeCmd returns the task describe subcommand
func DescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <task> [description]",
		Short: "Set or clear a task's markdown description",
		Long: `Set a task's description. Descriptions are markdown and are rendered by
'listboard task show'. An empty description removes it.

Examples:
  listboard task describe $TASK_ID "Needs **two** reviewers"
  listboard task describe $TASK_ID --file notes.md
  cat notes.md | listboard task describe $TASK_ID --file -

  # Remove the description
  listboard task describe $TASK_ID
`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDescribe,
	}

	cmd.Flags().String("file", "", "Read the description from a file (- for stdin)")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
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

	if err := b.UpdateTask(ctx, task.ID, strings.Join(args[1:], " ")); err != nil {
		return cli.Fail(formatter, err)
	}

	updated, _ := b.Task(task.ID)
	return formatter.Success(updated, fmt.Sprintf("✓ Task %s updated: '%s'", updated.ID, updated.Content))
}

func runDescribe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.Formatter(cmd)

	description := strings.Join(args[1:], " ")
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		data, err := readInput(cmd, file)
		if err != nil {
			return cli.Fail(formatter, err)
		}
		description = string(data)
	}

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

	if err := b.UpdateTaskDescription(ctx, task.ID, description); err != nil {
		return cli.Fail(formatter, err)
	}

	updated, _ := b.Task(task.ID)
	human := fmt.Sprintf("✓ Description of '%s' updated", updated.Content)
	if updated.Description == "" {
		human = fmt.Sprintf("✓ Description of '%s' removed", updated.Content)
	}
	return formatter.Success(updated, human)
}

// readInput reads a file, or the command's stdin for "-"
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
