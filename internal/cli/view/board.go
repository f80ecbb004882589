// Package view holds the read-only board commands: a one-off render and a
// live watch of local or remote boards.
package view

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/listboard/internal/cli"
	"github.com/thenoetrevino/listboard/internal/tui"
)

// BoardCmd returns the board command
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print the board",
		Long: `Print every column side by side with its tasks.

Examples:
  listboard board
  listboard board --json
`,
		Args: cobra.NoArgs,
		RunE: runBoard,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runBoard(cmd *cobra.Command, args []string) error {
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

	snapshot := b.Snapshot()
	st := tui.NewStyles(cliInstance.App.Config.Theme)
	return formatter.Success(snapshot, tui.RenderBoard(st, snapshot, tui.RenderOptions{}))
}
