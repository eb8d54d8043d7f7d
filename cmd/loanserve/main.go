package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sanjubaaba/loanserve/internal/app"
	"github.com/sanjubaaba/loanserve/internal/config"
	"github.com/sanjubaaba/loanserve/internal/logging"
)

const version = "0.1.0"

func main() {
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--help", "-h":
			config.WriteHelp(os.Stdout, version)
			return
		case "--version":
			fmt.Println(version)
			return
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(cfg.LogLevel, cfg.LogPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}

	logger.Info("Starting loanserve", "version", version)
	if err := app.New(cfg, logger, version).Run(ctx); err != nil {
		logger.Error("runtime failed", "error", err)
		os.Exit(1)
	}
}
