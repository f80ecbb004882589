package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"reflect"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/thenoetrevino/listboard/internal/api"
	"github.com/thenoetrevino/listboard/internal/cli"
	"github.com/thenoetrevino/listboard/internal/notify"
	"github.com/thenoetrevino/listboard/internal/reorder"
	"github.com/thenoetrevino/listboard/internal/tui"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the board every time it changes",
		Long: `Print the board, then print it again after every change until interrupted.

Changes made by other listboard processes show up when the daemon is
running. With --remote the board is streamed from a listboard server
instead, using the signed-in session's token.

Examples:
  listboard watch
  listboard watch --json
  listboard watch --remote http://localhost:8080
`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}

	cmd.Flags().String("remote", "", "Base URL of a listboard server to stream from")
	cmd.Flags().Int("count", 0, "Exit after printing this many boards (0 = run until interrupted)")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.Formatter(cmd)

	remote, _ := cmd.Flags().GetString("remote")
	count, _ := cmd.Flags().GetInt("count")

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return cli.Fail(formatter, err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	st := tui.NewStyles(cliInstance.App.Config.Theme)
	printed := 0
	var last *reorder.Board
	emit := func(b reorder.Board) (done bool, err error) {
		// Snapshots and write acks often repeat the board just printed
		if last != nil && reflect.DeepEqual(*last, b) {
			return false, nil
		}
		last = &b

		if err := formatter.Success(b, tui.RenderBoard(st, b, tui.RenderOptions{})+"\n"); err != nil {
			return true, err
		}
		printed++
		return count > 0 && printed >= count, nil
	}

	if remote != "" {
		err = watchRemote(ctx, cliInstance, remote, emit)
	} else {
		err = watchLocal(ctx, cliInstance, emit)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return cli.Fail(formatter, err)
	}
	return nil
}

// watchLocal follows the board through the realtime store
func watchLocal(ctx context.Context, c *cli.CLI, emit func(reorder.Board) (bool, error)) error {
	b, err := c.Board(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	unsubscribe, err := b.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer unsubscribe()

	changed := make(chan struct{}, 1)
	unregister := b.OnChange(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unregister()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.App.Follow(gctx)
	})
	g.Go(func() error {
		defer cancel()
		if done, err := emit(b.Snapshot()); done || err != nil {
			return err
		}
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-changed:
				if done, err := emit(b.Snapshot()); done || err != nil {
					return err
				}
			}
		}
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchRemote streams board pushes from a server's websocket
func watchRemote(ctx context.Context, c *cli.CLI, base string, emit func(reorder.Board) (bool, error)) error {
	token, err := c.App.Session.Token()
	if err != nil {
		return err
	}
	wsURL, err := websocketURL(base, token)
	if err != nil {
		return err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("failed to connect to %s: %s", base, resp.Status)
		}
		return fmt.Errorf("failed to connect to %s: %w", base, err)
	}
	defer conn.Close()

	// Unblock ReadJSON on interrupt
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	theme := c.App.Config.Theme
	for {
		var push api.Push
		if err := conn.ReadJSON(&push); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("failed to read from %s: %w", base, err)
		}

		switch push.Type {
		case api.PushBoard:
			if push.Board == nil {
				continue
			}
			if done, err := emit(*push.Board); done || err != nil {
				return err
			}
		case api.PushToast:
			fmt.Fprintln(os.Stderr, notify.RenderInline(theme, notify.ParseSeverity(push.Severity), push.Message))
		}
	}
}

// websocketURL turns a server base URL into its authenticated socket URL
func websocketURL(base, token string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid server url %q: %w", base, err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid server url %q: scheme must be http or https", base)
	}
	u.Path += "/api/ws"
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
