package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/thenoetrevino/listboard/internal/api"
	"github.com/thenoetrevino/listboard/internal/cli"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP and websocket API",
		Long: `Serve every user's board over HTTP, with live board and toast pushes
over a websocket. Boards change together with the terminal clients when
the daemon is running.

Examples:
  listboard serve
  listboard serve --addr :9090
`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (defaults to server.addr from the config)")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.Formatter(cmd)
	addr, _ := cmd.Flags().GetString("addr")

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

	if addr == "" {
		addr = a.Config.Server.Addr
	}
	server := api.NewServer(a, api.WithAddr(addr))
	if !formatter.JSON && !formatter.Quiet {
		fmt.Fprintf(os.Stderr, "Serving listboard on %s\n", addr)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})
	g.Go(func() error {
		if err := a.Follow(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return cli.Fail(formatter, err)
	}
	return nil
}
