package catalog

import (
	"context"

	"github.com/storyhive/storyhive/internal/events"
	"github.com/storyhive/storyhive/internal/search"
	"github.com/storyhive/storyhive/pkg/model"
)

// Discover answers a catalog discovery query.
//
// A predicate-free query is a plain browse and goes straight to the primary
// store. A query with predicates tries the search index first for ranking
// and falls back to an equivalent structured query against the primary store
// when the index errors out or returns nothing. Either way the caller gets a
// usable page; the index being down degrades ranking quality, not
// availability.
func (s *Service) Discover(ctx context.Context, q model.DiscoverQuery) (*model.Page[*model.Novel], error) {
	q.Normalize(s.opts.DefaultPageSize)

	if !q.HasPredicates() {
		s.metrics.IncDiscover("browse")
		return s.structuredPage(ctx, q)
	}

	s.metrics.IncDiscover("search")

	result, err := s.rankedQuery(ctx, q)
	switch {
	case err != nil:
		// A dead caller gets no fallback; only index trouble does.
		if ctx.Err() != nil {
			return nil, model.WrapError(err)
		}
		s.logger.Warn("search index query failed, falling back to primary store",
			"error", err, "search", q.Search)
		s.fallback(ctx, "index_error", err)
	case len(result.Hits) == 0:
		s.fallback(ctx, "zero_hits", nil)
	default:
		return s.rankedPage(ctx, q, result)
	}

	return s.structuredPage(ctx, q)
}

// rankedQuery runs the index query under its own deadline so a slow index
// degrades into fallback instead of stalling the request.
func (s *Service) rankedQuery(ctx context.Context, q model.DiscoverQuery) (*search.Result, error) {
	sctx, cancel := context.WithTimeout(ctx, s.opts.SearchTimeout)
	defer cancel()

	return s.index.Query(sctx, search.Query{
		FreeText:  q.Search,
		Genres:    q.Genres,
		Tags:      q.Tags,
		Status:    q.Status,
		MinRating: q.MinRating,
		AuthorID:  q.AuthorID,
		Page:      q.Page,
		Limit:     q.Limit,
	})
}

// rankedPage hydrates the index hits from the primary store, preserving the
// index ranking. Hits whose record has since disappeared are dropped
// silently; the index is merely lagging a delete.
func (s *Service) rankedPage(ctx context.Context, q model.DiscoverQuery, result *search.Result) (*model.Page[*model.Novel], error) {
	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}

	novels, err := s.novels.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.Novel, len(novels))
	for _, n := range novels {
		byID[n.ID] = n
	}

	ordered := make([]*model.Novel, 0, len(result.Hits))
	for _, hit := range result.Hits {
		if n, ok := byID[hit.ID]; ok {
			ordered = append(ordered, n)
		}
	}

	return &model.Page[*model.Novel]{
		Data:       ordered,
		Pagination: model.NewPagination(q.Page, q.Limit, result.Total),
	}, nil
}

func (s *Service) fallback(ctx context.Context, reason string, cause error) {
	s.metrics.IncSearchFallback(reason)

	detail := reason
	if cause != nil {
		detail = reason + ": " + cause.Error()
	}
	s.publish(ctx, events.Event{Type: events.SearchFallback, Detail: detail})
}
