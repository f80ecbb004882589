package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/listboard/internal/cli"
	"github.com/thenoetrevino/listboard/internal/config"
	"github.com/thenoetrevino/listboard/internal/daemon"
	"github.com/thenoetrevino/listboard/internal/logging"
)

func newDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Relay board changes between listboard processes",
		Long: `Run the change daemon. While it runs, a change made by any listboard
process shows up at once in every open board, watch and server.`,
		Args: cobra.NoArgs,
		RunE: runDaemon,
	}

	cmd.Flags().String("socket", "", "Socket path (defaults to daemon.socket_path from the config)")
	return cmd
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := &cli.OutputFormatter{}

	cfg, err := config.Load()
	if err != nil {
		return cli.Fail(formatter, err)
	}
	if err := logging.Init(cfg.LogDir(), cfg.Log.Level); err != nil {
		return cli.Fail(formatter, err)
	}

	socketPath, _ := cmd.Flags().GetString("socket")
	if socketPath == "" {
		socketPath = cfg.Daemon.SocketPath
	}

	server, err := daemon.NewServer(socketPath, daemon.WithLogger(slog.Default()))
	if err != nil {
		return cli.Fail(formatter, err)
	}

	slog.Info("listboard daemon starting", "socket_path", socketPath, "pid", os.Getpid())
	fmt.Fprintf(os.Stderr, "Relaying changes on %s\n", socketPath)

	// Start blocks until ctx ends
	if err := server.Start(ctx); err != nil {
		return cli.Fail(formatter, err)
	}

	slog.Info("listboard daemon shutting down gracefully")
	return nil
}
