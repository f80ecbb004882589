package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/thenoetrevino/listboard/cmd"
	"github.com/thenoetrevino/listboard/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := cmd.Execute(ctx)
	if err == nil {
		return
	}

	// Command failures were already reported. Anything else came from
	// cobra's argument and flag parsing.
	code := cli.ExitCode(err)
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code = cli.ExitUsage
	}
	cancel()
	os.Exit(code)
}
