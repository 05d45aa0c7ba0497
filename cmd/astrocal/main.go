package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rewired-gh/astrocal/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		logger.Fatal("%v", err)
	}
}
