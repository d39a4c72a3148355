package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gradi-client/agents/video-grader"
	"gradi-client/internal/apperrors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := videograder.NewApp(os.Stdout, os.Stderr)
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cancel()
		os.Exit(apperrors.ExitCode(err))
	}
}
