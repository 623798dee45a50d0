package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"time"

	"github.com/storyhive/storyhive/internal/config"
	"github.com/storyhive/storyhive/internal/logging"
	"github.com/storyhive/storyhive/internal/reindex"
	"github.com/storyhive/storyhive/internal/search/elastic"
	"github.com/storyhive/storyhive/internal/storage/mongo"
)

func main() {
	// 0. Parse Command Line Flags
	batchSize := flag.Int("batch", 0, "Records fetched per batch (0 uses the configured size)")
	timeout := flag.Duration("timeout", 30*time.Minute, "Abort the rebuild after this long")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// 2. Connect Primary Store and Search Index
	provider, err := mongo.Connect(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer provider.Close(context.Background())

	index, err := elastic.NewClient(cfg.Search)
	if err != nil {
		log.Fatalf("Failed to create search client: %v", err)
	}

	// 3. Run the Rebuild
	if *batchSize <= 0 {
		*batchSize = cfg.Catalog.ReindexBatchSize
	}
	report, err := reindex.Run(ctx, provider.Novels, index, reindex.Options{
		BatchSize: *batchSize,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("Reindex failed: %v", err)
	}

	log.Printf("Reindex complete: %d/%d synced, %d failed in %s",
		report.Synced, report.Total, report.Failed, report.Duration.Round(time.Millisecond))
}
