package column

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/listboard/internal/cli"
)

// DeleteCmd returns the column delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <column>",
		Short: "Delete a column and its tasks",
		Long: `Delete a column together with its tasks and their comments.

The default Todo, Doing and Done columns cannot be deleted.

Examples:
  listboard column delete Review
  listboard column delete $COLUMN_ID --json
`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
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

	column, err := cli.ResolveColumn(b, args[0])
	if err != nil {
		return cli.Fail(formatter, err)
	}
	removed := len(b.Tasks(column.ID))

	if err := b.DeleteColumn(ctx, column.ID); err != nil {
		return cli.Fail(formatter, err)
	}

	return formatter.Success(column,
		fmt.Sprintf("✓ Column '%s' deleted (%d tasks removed)", column.Title, removed))
}
