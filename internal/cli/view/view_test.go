package view

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/listboard/internal/api"
	"github.com/thenoetrevino/listboard/internal/app"
	"github.com/thenoetrevino/listboard/internal/cli"
	"github.com/thenoetrevino/listboard/internal/testutil"
	clitest "github.com/thenoetrevino/listboard/internal/testutil/cli"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func addTask(t *testing.T, a *app.App, column, content string) {
	t.Helper()
	ctx := context.Background()
	b, err := a.Board(ctx)
	require.NoError(t, err)
	col, err := cli.ResolveColumn(b, column)
	require.NoError(t, err)
	_, err = b.AddTask(ctx, col.ID, content)
	require.NoError(t, err)
}

func TestBoardCmd(t *testing.T) {
	a, _ := clitest.SetupCLITest(t)
	addTask(t, a, "Doing", "Write docs")

	output, err := clitest.ExecuteCLICommand(t, a, BoardCmd(), nil)
	require.NoError(t, err)
	assert.Contains(t, output, "Todo (0)")
	assert.Contains(t, output, "Doing (1)")
	assert.Contains(t, output, "Write docs")
	assert.Contains(t, output, "No tasks")

	output, err = clitest.ExecuteCLICommand(t, a, BoardCmd(), []string{"--json"})
	require.NoError(t, err)
	data := testutil.ParseData(t, output)
	assert.Len(t, data["columns"], 3)
	assert.Len(t, data["tasks"], 1)
}

func TestBoardCmd_RequiresSignIn(t *testing.T) {
	a := clitest.SetupSignedOutCLITest(t)

	_, err := clitest.ExecuteCLICommand(t, a, BoardCmd(), nil)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

func TestWatch_PrintsInitialBoard(t *testing.T) {
	a, _ := clitest.SetupCLITest(t)
	addTask(t, a, "Todo", "Existing")

	output, err := clitest.ExecuteCLICommand(t, a, WatchCmd(), []string{"--count", "1"})
	require.NoError(t, err)
	assert.Contains(t, output, "Existing")
}

func TestWatch_PrintsChanges(t *testing.T) {
	a, _ := clitest.SetupCLITest(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Keep writing until the watcher has seen a change and exits
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		b, err := a.Board(ctx)
		if err != nil {
			return
		}
		col, err := cli.ResolveColumn(b, "Todo")
		if err != nil {
			return
		}
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = b.AddTask(ctx, col.ID, "Ping")
			}
		}
	}()

	output, err := clitest.ExecuteCLICommandWithContext(t, ctx, a, WatchCmd(), []string{"--count", "2", "--json"})
	close(done)
	wg.Wait()

	require.NoError(t, err)
	require.NoError(t, ctx.Err(), "watch should exit after two boards")

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"content":"Ping"`)
}

func TestWatch_Remote(t *testing.T) {
	a, _ := clitest.SetupCLITest(t)
	addTask(t, a, "Done", "Shipped")

	server := api.NewServer(a)
	srv := httptest.NewServer(server.Handler())
	t.Cleanup(func() {
		srv.Close()
		server.Registry().Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := clitest.ExecuteCLICommandWithContext(t, ctx, a, WatchCmd(), []string{"--remote", srv.URL, "--count", "1"})
	require.NoError(t, err)
	assert.Contains(t, output, "Done (1)")
	assert.Contains(t, output, "Shipped")
}

func TestWatch_RemoteRequiresSignIn(t *testing.T) {
	a := clitest.SetupSignedOutCLITest(t)

	_, err := clitest.ExecuteCLICommand(t, a, WatchCmd(), []string{"--remote", "http://127.0.0.1:1"})
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

func TestWebsocketURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base    string
		want    string
		wantErr bool
	}{
		{base: "http://localhost:8080", want: "ws://localhost:8080/api/ws?token=tok"},
		{base: "https://boards.example.com/", want: "wss://boards.example.com/api/ws?token=tok"},
		{base: "https://example.com/listboard", want: "wss://example.com/listboard/api/ws?token=tok"},
		{base: "ftp://example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			got, err := websocketURL(tt.base, "tok")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
