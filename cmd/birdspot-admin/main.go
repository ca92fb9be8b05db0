// Command birdspot-admin inspects and resets quota, usage and cache state directly in the stores
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"birdspot/internal/platform/config"
	"birdspot/internal/platform/logger"
)

func main() {
	path, err := config.LoadDotenv()
	logger.Init(logger.FromEnv())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if path != "" {
		logger.Get().Debug().Str("path", path).Msg("dotenv loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = execute(ctx, openServices, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
