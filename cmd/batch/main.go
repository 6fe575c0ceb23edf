package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JaimeStill/proctor/internal/config"
	"github.com/JaimeStill/proctor/internal/deregulation"
	"github.com/JaimeStill/proctor/internal/ecfr"
	"github.com/JaimeStill/proctor/pkg/database"
)

func main() {
	var (
		limit       = flag.Int("limit", 0, "Max agencies to classify (0 = configured default)")
		concurrency = flag.Int("concurrency", 0, "Simultaneous classifications (0 = configured default)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	if *limit == 0 {
		*limit = cfg.Batch.Limit
	}
	if *concurrency == 0 {
		*concurrency = cfg.Batch.Concurrency
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		log.Fatal("database init failed: ", err)
	}
	conn := db.Connection()
	defer conn.Close()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnTimeoutDuration())
	if err := conn.PingContext(pingCtx); err != nil {
		cancel()
		log.Fatal("database unreachable: ", err)
	}
	cancel()

	registry := ecfr.NewClient(&cfg.ECFR, logger)
	model := deregulation.NewModel(&cfg.Model)
	analyzer := deregulation.NewAnalyzer(registry, model, logger)

	cache := deregulation.New(
		conn,
		registry,
		analyzer,
		logger,
		cfg.API.Pagination,
	)

	job := deregulation.NewBatchJob(
		registry,
		analyzer,
		cache,
		*concurrency,
		logger,
	)

	result, err := job.Run(ctx, *limit)
	if err != nil {
		log.Fatal("batch run failed: ", err)
	}

	fmt.Printf(
		"classified %d agencies: %d succeeded, %d skipped, %d failed (%s)\n",
		result.Total,
		result.Succeeded,
		result.Skipped,
		result.Failed,
		result.Duration.Round(time.Millisecond),
	)

	if result.Failed > 0 {
		os.Exit(1)
	}
}
