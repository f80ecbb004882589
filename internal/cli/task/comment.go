package task

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/listboard/internal/cli"
	"github.com/thenoetrevino/listboard/internal/types"
)

// CommentCmd returns the task comment parent command
func CommentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Manage task comments",
	}

	cmd.AddCommand(commentAddCmd())
	cmd.AddCommand(commentDeleteCmd())

	return cmd
}

func commentAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <task> <text>",
		Short: "Comment on a task",
		Long: `Add a comment to a task.

Examples:
  listboard task comment add $TASK_ID "Blocked on the API review"
  COMMENT_ID=$(listboard task comment add $TASK_ID LGTM --quiet)
`,
		Args: cobra.MinimumNArgs(2),
		RunE: runCommentAdd,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func commentDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <comment-id>",
		Short: "Delete a comment",
		Args:  cobra.ExactArgs(1),
		RunE:  runCommentDelete,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runCommentAdd(cmd *cobra.Command, args []string) error {
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

	comment, err := b.AddComment(ctx, task.ID, strings.Join(args[1:], " "))
	if err != nil {
		return cli.Fail(formatter, err)
	}

	return formatter.Success(comment,
		fmt.Sprintf("✓ Comment added to '%s' (ID: %s)", task.Content, comment.ID))
}

func runCommentDelete(cmd *cobra.Command, args []string) error {
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

	id := types.CommentID(strings.TrimSpace(args[0]))
	if err := b.DeleteComment(ctx, id); err != nil {
		return cli.Fail(formatter, err)
	}

	return formatter.Success(map[string]string{"id": string(id)}, fmt.Sprintf("✓ Comment %s deleted", id))
}
