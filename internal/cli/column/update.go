package column

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/listboard/internal/cli"
)

// RenameCmd returns the column rename subcommand
func RenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <column> <title>",
		Short: "Rename a column",
		Long: `Rename a column. The column may be given by ID or by title.

Examples:
  listboard column rename Review "Code Review"
  listboard column rename $COLUMN_ID "Code Review" --json
`,
		Args: cobra.MinimumNArgs(2),
		RunE: runRename,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runRename(cmd *cobra.Command, args []string) error {
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

	oldTitle := column.Title
	if err := b.UpdateColumn(ctx, column.ID, strings.Join(args[1:], " ")); err != nil {
		return cli.Fail(formatter, err)
	}

	updated, _ := b.Column(column.ID)
	return formatter.Success(updated,
		fmt.Sprintf("✓ Column '%s' renamed to '%s'", oldTitle, updated.Title))
}
