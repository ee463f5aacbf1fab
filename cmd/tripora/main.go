// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command tripora is the command-line front end of the Tripora client core.
//
// No business logic lives here. Configuration is loaded per command by the
// cli package; this file only owns the process: signals and exit codes.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/tripora/internal/cli"
	"github.com/taibuivan/tripora/internal/platform/config"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailed      = 1 // the operation ran and reported a failure
	exitError       = 2 // the command could not run (configuration, usage)
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand(config.Load).ExecuteContext(ctx)
	os.Exit(exitCode(ctx, err))
}

// exitCode prints err and maps it to the process status.
func exitCode(ctx context.Context, err error) int {
	if err == nil {
		return exitOK
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		fmt.Fprintln(os.Stderr, "\nOperation cancelled")
		return exitInterrupted
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var failed *cli.ResultError
	if errors.As(err, &failed) {
		return exitFailed
	}
	return exitError
}
