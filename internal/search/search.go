// Package search defines the contract of the secondary full-text index.
//
// The index is a best-effort accelerator, never the system of record: it can
// be fully rebuilt from the primary store, and every caller must be prepared
// for it to fail or to return nothing.
package search

import (
	"context"

	"github.com/storyhive/storyhive/pkg/model"
)

// Query is a ranked discovery query against the index.
type Query struct {
	FreeText  string
	Genres    []string
	Tags      []string
	Status    model.NovelStatus
	MinRating float64
	AuthorID  string
	Page      int
	Limit     int
}

// Hit is one ranked result. Order of hits is authoritative for ranked
// results; Score is informational.
type Hit struct {
	ID    string
	Score float64
}

// Result is a page of ranked hits plus the index-reported total.
type Result struct {
	Hits  []Hit
	Total int64
}

// Index is the secondary search index.
//
// Query failures must be distinguishable from empty results: an unreachable
// or erroring index returns an error wrapping model.ErrIndexUnavailable,
// while a healthy index with no matches returns an empty Result.
type Index interface {
	// EnsureIndex creates the index and its mapping if missing.
	EnsureIndex(ctx context.Context) error

	// Upsert writes the document, replacing any previous version. Last
	// write wins; ordering between rapid successive upserts of the same
	// document is not guaranteed.
	Upsert(ctx context.Context, doc model.SearchDocument) error

	// Delete removes the document by id. Deleting a missing document is
	// not an error.
	Delete(ctx context.Context, id string) error

	// Query runs a ranked query.
	Query(ctx context.Context, q Query) (*Result, error)
}
