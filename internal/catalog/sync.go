package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/storyhive/storyhive/internal/events"
	"github.com/storyhive/storyhive/internal/search"
	"github.com/storyhive/storyhive/pkg/model"
)

const (
	syncOpUpsert = "upsert"
	syncOpDelete = "delete"
)

type syncTask struct {
	op  string
	id  string
	doc model.SearchDocument
}

// SyncWriter mirrors primary-store mutations into the search index.
//
// It is strictly fire-and-forget: tasks run on background workers under the
// writer's own context, so a canceled request never truncates a sync, and no
// failure here ever reaches the caller that triggered the mutation. A failed
// sync leaves the index stale until the next successful write or a full
// reindex; it is logged, counted, and published as an observability event.
type SyncWriter struct {
	index   search.Index
	queue   chan syncTask
	timeout time.Duration
	logger  *slog.Logger
	events  events.Publisher
	metrics Metrics

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// SyncWriterOptions tunes the background workers.
type SyncWriterOptions struct {
	QueueSize int
	Workers   int
	Timeout   time.Duration
}

// NewSyncWriter starts the background workers.
func NewSyncWriter(index search.Index, publisher events.Publisher, metrics Metrics, logger *slog.Logger, opts SyncWriterOptions) *SyncWriter {
	if opts.QueueSize < 1 {
		opts.QueueSize = 256
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &SyncWriter{
		index:   index,
		queue:   make(chan syncTask, opts.QueueSize),
		timeout: opts.Timeout,
		logger:  logger,
		events:  publisher,
		metrics: metrics,
		baseCtx: ctx,
		cancel:  cancel,
	}

	w.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go w.run()
	}
	return w
}

// EnqueueUpsert schedules the novel's search projection for indexing.
func (w *SyncWriter) EnqueueUpsert(novel *model.Novel) {
	w.enqueue(syncTask{op: syncOpUpsert, id: novel.ID, doc: model.NewSearchDocument(novel)})
}

// EnqueueDelete schedules removal of the novel's search document.
func (w *SyncWriter) EnqueueDelete(novelID string) {
	w.enqueue(syncTask{op: syncOpDelete, id: novelID})
}

// enqueue never blocks the mutation path. When the queue is full the task is
// dropped: the index self-heals on the next successful sync or reindex.
func (w *SyncWriter) enqueue(t syncTask) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	select {
	case w.queue <- t:
	default:
		w.logger.Warn("index sync queue full, dropping task", "op", t.op, "novel", t.id)
		w.metrics.IncIndexSyncDropped(t.op)
	}
}

func (w *SyncWriter) run() {
	defer w.wg.Done()
	for t := range w.queue {
		w.process(t)
	}
}

func (w *SyncWriter) process(t syncTask) {
	ctx, cancel := context.WithTimeout(w.baseCtx, w.timeout)
	defer cancel()

	var err error
	switch t.op {
	case syncOpUpsert:
		err = w.index.Upsert(ctx, t.doc)
	case syncOpDelete:
		err = w.index.Delete(ctx, t.id)
	}
	if err == nil {
		return
	}

	w.logger.Error("index sync failed", "op", t.op, "novel", t.id, "error", err)
	w.metrics.IncIndexSyncFailure(t.op)

	evtCtx, evtCancel := context.WithTimeout(w.baseCtx, w.timeout)
	defer evtCancel()
	if pubErr := w.events.Publish(evtCtx, events.Event{
		Type:    events.IndexSyncFailed,
		NovelID: t.id,
		Detail:  t.op + ": " + err.Error(),
		At:      time.Now().UTC(),
	}); pubErr != nil {
		w.logger.Warn("failed to publish index sync failure event", "error", pubErr)
	}
}

// Close stops accepting tasks, drains the queue, and waits for the workers.
func (w *SyncWriter) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()

	w.wg.Wait()
	w.cancel()
}
