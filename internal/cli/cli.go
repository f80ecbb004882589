package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/thenoetrevino/listboard/internal/app"
	"github.com/thenoetrevino/listboard/internal/board"
	"github.com/thenoetrevino/listboard/internal/config"
	"github.com/thenoetrevino/listboard/internal/logging"
	"github.com/thenoetrevino/listboard/internal/notify"
)

// CLI represents the CLI application context
type CLI struct {
	App *app.App // Application container with services
	ctx context.Context

	// owned is false when App was injected and belongs to the caller
	owned bool
}

// NewCLI loads config, starts logging and opens the app. The change
// daemon is optional: without it the CLI runs with no live updates.
func NewCLI(ctx context.Context) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Init(cfg.LogDir(), cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger := slog.Default()

	opts := []app.Option{
		app.WithLogger(logger),
		app.WithNotifySinks(notify.NewWriterSink(os.Stderr, cfg.Theme)),
	}
	if cfg.Backend != config.BackendFirestore {
		if ec := app.ConnectEvents(ctx, cfg.Daemon.SocketPath, "", logger); ec != nil {
			opts = append(opts, app.WithEventPublisher(ec))
		}
	}

	application, err := app.New(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}

	return &CLI{
		App:   application,
		ctx:   ctx,
		owned: true,
	}, nil
}

// Board opens the signed-in user's board
func (c *CLI) Board(ctx context.Context) (*board.Store, error) {
	return c.App.Board(ctx)
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	if !c.owned {
		return nil
	}
	return c.App.Close()
}
