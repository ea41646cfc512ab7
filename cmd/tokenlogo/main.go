// Command tokenlogo generates deterministic token logos and serves them
// over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/tokenlogo/internal/cli"
	tlerrors "github.com/matzehuels/tokenlogo/pkg/errors"
)

// Exit codes.
const (
	exitError       = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := cli.New(os.Stderr, cli.LogInfo).RootCommand()
	err := root.ExecuteContext(ctx)
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, context.Canceled):
		os.Exit(exitInterrupted)
	case tlerrors.Is(err, tlerrors.ErrCodeInvalidIdentifier),
		tlerrors.Is(err, tlerrors.ErrCodeInvalidConfig):
		fmt.Fprintln(os.Stderr, "error:", tlerrors.UserMessage(err))
		os.Exit(exitUsage)
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitError)
	}
}
