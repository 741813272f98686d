// infoprobe fetches one wallet's recent activity from the info endpoint and prints it.
// Usage: go run ./cmd/infoprobe --wallet 0xabc... --since 1h
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/hyperwatch/internal/api"
	"github.com/rickgao/hyperwatch/internal/config"
	"github.com/rickgao/hyperwatch/internal/model"
	"github.com/rickgao/hyperwatch/internal/notify"
)

func main() {
	wallet := flag.String("wallet", "", "wallet address to probe")
	since := flag.Duration("since", time.Hour, "how far back to fetch")
	url := flag.String("url", config.DefaultAPIURL, "info API base URL")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if !model.ValidAddress(*wallet) {
		logger.Error("invalid or missing -wallet", "wallet", *wallet)
		os.Exit(2)
	}
	addr := model.NormalizeAddress(*wallet)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	client := api.NewClient(*url, api.WithLogger(logger))
	source := api.NewSource(client, logger)

	activities, err := source.Fetch(ctx, addr, time.Now().Add(-*since))
	if err != nil {
		// Partial results are still printed.
		logger.Warn("fetch incomplete", "error", err)
	}

	for _, a := range activities {
		text := notify.RenderActivity(a, model.ShortAddress(addr))
		fmt.Printf("%-12s %s  %s\n  %s\n",
			a.Kind(),
			model.MillisToTime(a.Timestamp()).UTC().Format(time.RFC3339),
			a.EventID(),
			text,
		)
	}
	logger.Info("done", "wallet", addr, "activities", len(activities))
}
