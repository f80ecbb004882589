package column

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/listboard/internal/cli"
	"github.com/thenoetrevino/listboard/internal/reorder"
)

// MoveCmd returns the column move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <column> <target>",
		Short: "Move a column to another column's position",
		Long: `Drag a column and drop it on another column. The dragged column takes
the target's position and the columns in between shift over.

Examples:
  # Make Done the leftmost column
  listboard column move Done Todo

  listboard column move Review Done --json
`,
		Args: cobra.ExactArgs(2),
		RunE: runMove,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
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
	target, err := cli.ResolveColumn(b, args[1])
	if err != nil {
		return cli.Fail(formatter, err)
	}

	if err := b.BeginDrag(reorder.ColumnItem(column.ID)); err != nil {
		return cli.Fail(formatter, err)
	}
	drop := reorder.ColumnItem(target.ID)
	if err := b.EndDrag(ctx, &drop); err != nil {
		return cli.Fail(formatter, err)
	}

	moved, _ := b.Column(column.ID)
	return formatter.Success(moved,
		fmt.Sprintf("✓ Column '%s' moved to position %d", moved.Title, moved.Order+1))
}
