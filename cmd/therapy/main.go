package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/PabloGalante/therapy-chat/internal/cli"
	"github.com/PabloGalante/therapy-chat/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Run(ctx, os.Args[1:]); err != nil {
		observability.Logger().Error("therapy exited with error", "error", err)
		os.Exit(1)
	}
}
