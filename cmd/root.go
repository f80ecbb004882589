package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/listboard/internal/cli/account"
	"github.com/thenoetrevino/listboard/internal/cli/column"
	"github.com/thenoetrevino/listboard/internal/cli/task"
	"github.com/thenoetrevino/listboard/internal/cli/view"
)

// NewRootCmd builds the listboard command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "listboard",
		Short: "Listboard - a kanban board for the terminal and the browser",
		Long: `Listboard keeps a personal kanban board of columns and tasks.

Run it without a command to open the interactive board. Every other
command prints human-readable output by default and accepts --json for
agents and --quiet for scripts.`,
		Args:          cobra.NoArgs,
		RunE:          runTUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(account.Commands()...)
	rootCmd.AddCommand(column.ColumnCmd())
	rootCmd.AddCommand(task.TaskCmd())
	rootCmd.AddCommand(view.BoardCmd())
	rootCmd.AddCommand(view.WatchCmd())
	rootCmd.AddCommand(newTUICmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newDaemonCmd())

	return rootCmd
}

// Execute runs the command line until ctx ends
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
