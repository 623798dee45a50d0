// Package reindex rebuilds the search index from the authoritative store.
// The index holds no data of its own, so a full rebuild is always safe to
// run, including against a live system: documents are upserted in place and
// writes that land during the rebuild simply overwrite its output.
package reindex

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/storyhive/storyhive/internal/search"
	"github.com/storyhive/storyhive/internal/storage"
	"github.com/storyhive/storyhive/pkg/model"
)

// Report summarizes one rebuild run.
type Report struct {
	Total    int64
	Synced   int
	Failed   int
	Duration time.Duration
}

// Options tunes a rebuild.
type Options struct {
	// BatchSize is how many records are fetched from the store per page.
	BatchSize int
	// Logger receives progress; nil means slog.Default.
	Logger *slog.Logger
}

// Run rebuilds the whole index from the store. Individual document failures
// are counted and logged but do not stop the run; the run fails only when
// the store itself or the index mapping does.
func Run(ctx context.Context, novels storage.NovelStore, index search.Index, opts Options) (*Report, error) {
	if opts.BatchSize < 1 {
		opts.BatchSize = 100
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := index.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("ensure index: %w", err)
	}

	total, err := novels.Count(ctx, model.DiscoverQuery{})
	if err != nil {
		return nil, fmt.Errorf("count novels: %w", err)
	}

	report := &Report{Total: total}
	start := time.Now()
	logger.Info("reindex started", "total", total, "batch_size", opts.BatchSize)

	for page := 1; ; page++ {
		q := model.DiscoverQuery{Page: page, Limit: opts.BatchSize, SortBy: model.SortDefault}
		batch, err := novels.Find(ctx, q)
		if err != nil {
			return report, fmt.Errorf("fetch batch %d: %w", page, err)
		}
		if len(batch) == 0 {
			break
		}

		for _, novel := range batch {
			if err := ctx.Err(); err != nil {
				return report, model.WrapError(err)
			}
			if err := index.Upsert(ctx, model.NewSearchDocument(novel)); err != nil {
				report.Failed++
				logger.Error("failed to index novel", "novel", novel.ID, "error", err)
				continue
			}
			report.Synced++
		}

		logger.Info("reindex progress", "synced", report.Synced, "failed", report.Failed, "total", total)

		if len(batch) < opts.BatchSize {
			break
		}
	}

	report.Duration = time.Since(start)
	logger.Info("reindex finished",
		"synced", report.Synced, "failed", report.Failed, "duration", report.Duration)
	return report, nil
}
