package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/siddhixshah/News-Analysis/internal/app"
	"github.com/siddhixshah/News-Analysis/internal/config"
	"github.com/siddhixshah/News-Analysis/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "explorer start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "write the fetched articles to this CSV file")
	flag.Parse()

	symbol := flag.Arg(0)
	if symbol == "" {
		return fmt.Errorf("usage: explorer [-csv file] TICKER")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := logger.Init(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("explorer starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	explorer, err := app.NewExplorer(cfg)
	if err != nil {
		logger.ErrorObj("failed to initialize explorer", "error", err)
		return err
	}
	defer explorer.Close()

	if err := explorer.Run(ctx, symbol, *csvPath); err != nil {
		return fmt.Errorf("explorer run: %w", err)
	}

	return nil
}
