// Package catalog implements the catalog core: discovery with search
// fallback, index synchronization, rating aggregation, and per-user reading
// state. The primary store is authoritative for everything; the search index
// is a best-effort accelerator kept in sync after every mutation.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/storyhive/storyhive/internal/config"
	"github.com/storyhive/storyhive/internal/events"
	"github.com/storyhive/storyhive/internal/search"
	"github.com/storyhive/storyhive/internal/storage"
	"github.com/storyhive/storyhive/pkg/model"
)

// Options tunes the service.
type Options struct {
	// SearchTimeout bounds the index call on the ranked discovery path so
	// fallback triggers promptly instead of hanging the request.
	SearchTimeout time.Duration
	// DefaultPageSize applies to discovery queries without a limit.
	DefaultPageSize int
	// ListingPageSize applies to author and library listings.
	ListingPageSize int

	Sync SyncWriterOptions
}

// OptionsFromConfig maps the catalog section of the configuration.
func OptionsFromConfig(cfg config.CatalogConfig) Options {
	return Options{
		SearchTimeout:   cfg.SearchTimeout,
		DefaultPageSize: cfg.DefaultPageSize,
		ListingPageSize: cfg.ListingPageSize,
		Sync: SyncWriterOptions{
			QueueSize: cfg.SyncQueueSize,
			Workers:   cfg.SyncWorkers,
		},
	}
}

func (o *Options) applyDefaults() {
	if o.SearchTimeout <= 0 {
		o.SearchTimeout = 2 * time.Second
	}
	if o.DefaultPageSize < 1 {
		o.DefaultPageSize = 10
	}
	if o.ListingPageSize < 1 {
		o.ListingPageSize = 20
	}
}

// Service is the catalog core.
type Service struct {
	novels  storage.NovelStore
	library storage.LibraryStore
	index   search.Index
	sync    *SyncWriter
	events  events.Publisher
	metrics Metrics
	logger  *slog.Logger
	opts    Options
}

// NewService wires the catalog core. publisher and metrics may be nil.
func NewService(novels storage.NovelStore, library storage.LibraryStore, index search.Index, publisher events.Publisher, metrics Metrics, logger *slog.Logger, opts Options) *Service {
	opts.applyDefaults()
	if publisher == nil {
		publisher = events.Nop{}
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		novels:  novels,
		library: library,
		index:   index,
		sync:    NewSyncWriter(index, publisher, metrics, logger, opts.Sync),
		events:  publisher,
		metrics: metrics,
		logger:  logger,
		opts:    opts,
	}
}

// Close drains the pending index syncs.
func (s *Service) Close() {
	s.sync.Close()
}

// CreateNovelParams carries the author-submitted fields of a new novel.
type CreateNovelParams struct {
	Title         string
	Description   string
	Author        model.Author
	Genres        []string
	Tags          []string
	Status        model.NovelStatus
	TotalChapters int
	Cover         *model.Cover
}

// CreateNovel inserts a new novel and mirrors it into the search index.
func (s *Service) CreateNovel(ctx context.Context, p CreateNovelParams) (*model.Novel, error) {
	if p.Status == "" {
		p.Status = model.NovelOngoing
	}
	if !p.Status.IsValid() {
		return nil, model.Validationf("unknown novel status %q", p.Status)
	}

	novel := &model.Novel{
		Title:         p.Title,
		Description:   p.Description,
		Author:        p.Author,
		Genres:        p.Genres,
		Tags:          p.Tags,
		Status:        p.Status,
		TotalChapters: p.TotalChapters,
		Cover:         p.Cover,
	}
	if err := s.novels.Create(ctx, novel); err != nil {
		return nil, err
	}

	s.sync.EnqueueUpsert(novel)
	s.publish(ctx, events.Event{Type: events.NovelCreated, NovelID: novel.ID, UserID: p.Author.ID})
	return novel, nil
}

// GetNovel returns a novel by id.
func (s *Service) GetNovel(ctx context.Context, id string) (*model.Novel, error) {
	return s.novels.Get(ctx, id)
}

// GetNovelCover returns the binary cover, model.ErrNotFound when the novel
// or its cover is absent.
func (s *Service) GetNovelCover(ctx context.Context, id string) (*model.Cover, error) {
	novel, err := s.novels.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if novel.Cover == nil || len(novel.Cover.Data) == 0 {
		return nil, fmt.Errorf("novel cover: %w", model.ErrNotFound)
	}
	return novel.Cover, nil
}

// UpdateNovelParams carries a partial update; nil fields stay untouched.
type UpdateNovelParams struct {
	Title         *string
	Description   *string
	Genres        *[]string
	Tags          *[]string
	Status        *model.NovelStatus
	TotalChapters *int
}

// UpdateNovel applies a partial edit and mirrors the result into the index.
func (s *Service) UpdateNovel(ctx context.Context, id string, p UpdateNovelParams) (*model.Novel, error) {
	fields := map[string]interface{}{}
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Genres != nil {
		fields["genres"] = *p.Genres
	}
	if p.Tags != nil {
		fields["tags"] = *p.Tags
	}
	if p.Status != nil {
		if !p.Status.IsValid() {
			return nil, model.Validationf("unknown novel status %q", *p.Status)
		}
		fields["status"] = *p.Status
	}
	if p.TotalChapters != nil {
		fields["total_chapters"] = *p.TotalChapters
	}

	novel, err := s.novels.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.sync.EnqueueUpsert(novel)
	s.publish(ctx, events.Event{Type: events.NovelUpdated, NovelID: id})
	return novel, nil
}

// DeleteNovel removes the novel and cascades the removal into the index.
func (s *Service) DeleteNovel(ctx context.Context, id string) error {
	if err := s.novels.Delete(ctx, id); err != nil {
		return err
	}

	s.sync.EnqueueDelete(id)
	s.publish(ctx, events.Event{Type: events.NovelDeleted, NovelID: id})
	return nil
}

// IncrementViewCount bumps the view counter and mirrors the new count.
func (s *Service) IncrementViewCount(ctx context.Context, id string) (int64, error) {
	novel, err := s.novels.IncrementViews(ctx, id)
	if err != nil {
		return 0, err
	}

	s.sync.EnqueueUpsert(novel)
	return novel.ViewCount, nil
}

// SetCover attaches or replaces the binary cover. Covers stay out of the
// search projection, so the sync only refreshes index timestamps.
func (s *Service) SetCover(ctx context.Context, id string, cover *model.Cover) (*model.Novel, error) {
	if cover == nil || len(cover.Data) == 0 {
		return nil, model.Validationf("empty cover payload")
	}
	novel, err := s.novels.SetCover(ctx, id, cover)
	if err != nil {
		return nil, err
	}

	s.sync.EnqueueUpsert(novel)
	return novel, nil
}

// RemoveCover detaches the binary cover. The projection never contained the
// cover, but the sync keeps the index timestamps consistent.
func (s *Service) RemoveCover(ctx context.Context, id string) (*model.Novel, error) {
	novel, err := s.novels.RemoveCover(ctx, id)
	if err != nil {
		return nil, err
	}

	s.sync.EnqueueUpsert(novel)
	return novel, nil
}

// ListByAuthor lists an author's novels, newest first.
func (s *Service) ListByAuthor(ctx context.Context, authorID string, status model.NovelStatus, page, limit int) (*model.Page[*model.Novel], error) {
	q := model.DiscoverQuery{AuthorID: authorID, Status: status, Page: page, Limit: limit}
	q.Normalize(s.opts.ListingPageSize)
	return s.structuredPage(ctx, q)
}

func (s *Service) structuredPage(ctx context.Context, q model.DiscoverQuery) (*model.Page[*model.Novel], error) {
	novels, err := s.novels.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	total, err := s.novels.Count(ctx, q)
	if err != nil {
		return nil, err
	}

	return &model.Page[*model.Novel]{
		Data:       novels,
		Pagination: model.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// publish is best-effort; a failing observability collaborator is worth a
// warning, nothing more.
func (s *Service) publish(ctx context.Context, evt events.Event) {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Warn("failed to publish event", "type", evt.Type, "error", err)
	}
}
