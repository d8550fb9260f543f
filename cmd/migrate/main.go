package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"artlog/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error().Err(err).Msg("migrate failed")
		stop()
		os.Exit(1)
	}
}
