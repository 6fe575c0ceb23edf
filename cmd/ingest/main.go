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
	"github.com/JaimeStill/proctor/internal/ecfr"
	"github.com/JaimeStill/proctor/internal/ingest"
	"github.com/JaimeStill/proctor/internal/snapshots"
	"github.com/JaimeStill/proctor/pkg/database"
	"github.com/JaimeStill/proctor/pkg/storage"
)

func main() {
	var (
		date  = flag.String("date", "", "Snapshot date (YYYY-MM-DD, default today)")
		limit = flag.Int("limit", 0, "Max agencies to snapshot (0 = all)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	snapshotDate := time.Now().UTC().Truncate(24 * time.Hour)
	if *date != "" {
		snapshotDate, err = time.Parse("2006-01-02", *date)
		if err != nil {
			log.Fatalf("invalid date %q: %v", *date, err)
		}
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

	var archive storage.System
	if cfg.ArchiveEnabled() {
		archive, err = storage.New(&cfg.Storage, logger)
		if err != nil {
			log.Fatal("storage init failed: ", err)
		}
	}

	registry := ecfr.NewClient(&cfg.ECFR, logger)
	store := snapshots.New(conn, logger, cfg.API.Pagination)

	pipeline := ingest.New(registry, store, archive, logger)

	result, err := pipeline.Run(ctx, snapshotDate, *limit)
	if err != nil {
		log.Fatal("ingest failed: ", err)
	}

	fmt.Printf(
		"snapshot %s: %d titles, %d appended, %d duplicates, %d failed (%s)\n",
		result.SnapshotDate.Format("2006-01-02"),
		result.Titles,
		result.Appended,
		result.Duplicates,
		result.Failed,
		result.Duration,
	)

	if result.Failed > 0 {
		os.Exit(1)
	}
}
