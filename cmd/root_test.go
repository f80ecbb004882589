package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/listboard/internal/cli"
	"github.com/thenoetrevino/listboard/internal/testutil"
	clitest "github.com/thenoetrevino/listboard/internal/testutil/cli"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"register", "login", "logout", "whoami", "column", "task", "board", "watch", "tui", "serve", "daemon"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_RunsBoardCommands(t *testing.T) {
	a, _ := clitest.SetupCLITest(t)

	root := NewRootCmd()
	root.SetArgs([]string{"task", "add", "Todo", "Write", "docs", "--json"})
	output := testutil.CaptureOutput(t, func() {
		require.NoError(t, root.ExecuteContext(cli.WithApp(context.Background(), a)))
	})

	result := testutil.ParseJSON(t, output)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "Write docs", data["content"])
}

func TestRootCmd_ArgumentErrorsAreUnclassified(t *testing.T) {
	a, _ := clitest.SetupCLITest(t)

	root := NewRootCmd()
	root.SetArgs([]string{"column", "create"})
	err := root.ExecuteContext(cli.WithApp(context.Background(), a))
	require.Error(t, err)
	var exitErr *cli.ExitError
	assert.False(t, errors.As(err, &exitErr), "main reports these as usage errors")
}

func TestServe_StopsWithContext(t *testing.T) {
	a, _ := clitest.SetupCLITest(t)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	root := NewRootCmd()
	root.SetArgs([]string{"serve", "--addr", "127.0.0.1:0", "--quiet"})
	err := root.ExecuteContext(cli.WithApp(ctx, a))
	assert.NoError(t, err)
}
