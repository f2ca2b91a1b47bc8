package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/gridtrace/internal/cli"
	gterrors "github.com/matzehuels/gridtrace/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	if err := c.Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, context.Canceled) || gterrors.Is(err, gterrors.ErrCodeCanceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, "Error:", gterrors.UserMessage(err))
		os.Exit(1)
	}
}
