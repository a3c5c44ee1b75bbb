// Package main is the entry point for the vfsutil command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vfsutil/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, cli.RenderError(err))
		stop()
		os.Exit(1)
	}
}
