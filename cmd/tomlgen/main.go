package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

var (
	// Version information - will be set at build time
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(newApp()).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errDrift) && !errors.Is(err, errLint) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}
