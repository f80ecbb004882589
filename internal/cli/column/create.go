package column

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/listboard/internal/cli"
)

// CreateCmd returns the column create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a new column",
		Long: `Create a new column at the right end of the board.

Titles must be unique, non-empty and at most 50 characters.

Examples:
  # Create column (human-readable output)
  listboard column create Review

  # JSON output for agents
  listboard column create "Waiting on QA" --json

  # Quiet mode for bash capture
  COLUMN_ID=$(listboard column create Review --quiet)
`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCreate,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
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

	column, err := b.CreateColumn(ctx, strings.Join(args, " "))
	if err != nil {
		return cli.Fail(formatter, err)
	}

	return formatter.Success(column,
		fmt.Sprintf("✓ Column '%s' created successfully (ID: %s)", column.Title, column.ID))
}
