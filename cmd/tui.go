package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/listboard/internal/cli"
	"github.com/thenoetrevino/listboard/internal/notify"
	"github.com/thenoetrevino/listboard/internal/tui"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board",
		Long: `Open the interactive board.

Move with h/j/k/l or the arrow keys. Space picks up the focused task, or
the column when its header is focused. Carry it with the movement keys,
drop it with enter or put it back with esc. n adds a task, d deletes.`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	formatter := &cli.OutputFormatter{}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return cli.Fail(formatter, err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()
	a := cliInstance.App

	// Toasts render inside the board; writing them to stderr would tear the screen
	a.Notifier.Init(notify.LogSink{Logger: a.Logger})

	b, err := cliInstance.Board(ctx)
	if err != nil {
		return cli.Fail(formatter, err)
	}
	unsubscribe, err := b.Subscribe(ctx)
	if err != nil {
		return cli.Fail(formatter, err)
	}
	defer unsubscribe()

	go func() {
		if err := a.Follow(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.Logger.Warn("stopped following changes", "error", err)
		}
	}()

	m := tui.New(ctx, b, a.Notifier, a.Config.KeyMappings, a.Config.Theme,
		tui.WithAutoClose(a.Config.Notify.AutoClose()),
		tui.WithLogger(a.Logger))
	if err := tui.Run(ctx, m); err != nil {
		return cli.Fail(formatter, err)
	}
	return nil
}
