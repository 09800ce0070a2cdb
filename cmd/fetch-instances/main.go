// cmd/fetch-instances/main.go
// Refreshes the Lemmy instance allowlist from the public census CSV.
// Meant to run from cron (the census updates roughly daily).
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"LemmyVotes/internal/config"
	"LemmyVotes/internal/core/instances"
	sqliteRepo "LemmyVotes/internal/db/sqlite"
)

func main() {
	cfg := config.FromEnv()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := sqliteRepo.Open(cfg.InstanceDBPath)
	if err != nil {
		log.Fatalf("Failed to open instance database: %v", err)
	}
	defer db.Close()

	if err := sqliteRepo.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate instance database: %v", err)
	}

	fetcher := instances.NewFetcher(sqliteRepo.NewInstanceRepository(db), cfg.InstanceSourceURL, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := fetcher.Refresh(ctx); err != nil {
		log.Fatalf("Failed to refresh instance allowlist: %v", err)
	}
}
