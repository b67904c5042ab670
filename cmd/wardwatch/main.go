package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yourname/wardwatch/internal"
	"github.com/yourname/wardwatch/internal/app"
	"github.com/yourname/wardwatch/internal/config"
	"github.com/yourname/wardwatch/internal/console"
)

func main() {
	cfg := config.Load()
	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger, os.Stdout)
	if err != nil {
		logger.Fatalf("failed to start: %v", err)
	}
	defer a.Close()

	c := console.New(os.Stdin, os.Stdout, a.Patients(), a.Reminder(), a.Monitor(), logger)
	if err := c.Run(ctx); err != nil {
		logger.Errorf("console: %v", err)
	}
}
