// Package memory implements the search index in process memory. It backs
// tests and single-node development setups where no Elasticsearch runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/storyhive/storyhive/internal/search"
	"github.com/storyhive/storyhive/pkg/model"
)

// Index is an in-memory search.Index.
type Index struct {
	mu   sync.RWMutex
	docs map[string]model.SearchDocument

	// FailWith, when set, makes every call return the given error. Tests
	// use it to simulate an unavailable index.
	FailWith error
}

// New creates an empty in-memory index.
func New() *Index {
	return &Index{docs: make(map[string]model.SearchDocument)}
}

func (i *Index) EnsureIndex(ctx context.Context) error {
	return i.FailWith
}

func (i *Index) Upsert(ctx context.Context, doc model.SearchDocument) error {
	if i.FailWith != nil {
		return i.FailWith
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.docs[doc.ID] = doc
	return nil
}

func (i *Index) Delete(ctx context.Context, id string) error {
	if i.FailWith != nil {
		return i.FailWith
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.docs, id)
	return nil
}

// Len reports the number of stored documents.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.docs)
}

// Get returns a stored document for test inspection.
func (i *Index) Get(id string) (model.SearchDocument, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	doc, ok := i.docs[id]
	return doc, ok
}

type scored struct {
	doc   model.SearchDocument
	score float64
}

// Query filters the stored documents and ranks free-text matches by a naive
// substring score: title matches weigh double over description matches.
func (i *Index) Query(ctx context.Context, q search.Query) (*search.Result, error) {
	if i.FailWith != nil {
		return nil, i.FailWith
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	var matches []scored
	for _, doc := range i.docs {
		if !matchesFilters(doc, q) {
			continue
		}
		score, ok := scoreFreeText(doc, q.FreeText)
		if !ok {
			continue
		}
		matches = append(matches, scored{doc: doc, score: score})
	}

	sort.Slice(matches, func(a, b int) bool {
		if matches[a].score != matches[b].score {
			return matches[a].score > matches[b].score
		}
		return matches[a].doc.UpdatedAt.After(matches[b].doc.UpdatedAt)
	})

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 10
	}

	result := &search.Result{Total: int64(len(matches))}
	start := (page - 1) * limit
	for idx := start; idx < len(matches) && idx < start+limit; idx++ {
		result.Hits = append(result.Hits, search.Hit{ID: matches[idx].doc.ID, Score: matches[idx].score})
	}
	return result, nil
}

func matchesFilters(doc model.SearchDocument, q search.Query) bool {
	if q.Status != "" && doc.Status != q.Status {
		return false
	}
	if q.AuthorID != "" && doc.Author.ID != q.AuthorID {
		return false
	}
	if q.MinRating > 0 {
		if doc.Stats.AverageRating == nil || *doc.Stats.AverageRating < q.MinRating {
			return false
		}
	}
	if len(q.Genres) > 0 && !anyOf(doc.Genres, q.Genres) {
		return false
	}
	if len(q.Tags) > 0 && !anyOf(doc.Tags, q.Tags) {
		return false
	}
	return true
}

func anyOf(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func scoreFreeText(doc model.SearchDocument, text string) (float64, bool) {
	if text == "" {
		return 0, true
	}
	needle := strings.ToLower(text)
	var score float64
	if strings.Contains(strings.ToLower(doc.Title), needle) {
		score += 2
	}
	if strings.Contains(strings.ToLower(doc.Description), needle) {
		score++
	}
	return score, score > 0
}
