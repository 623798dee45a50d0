// Package storage defines the contracts of the authoritative record store.
// The catalog core only ever talks to these interfaces; the MongoDB backend
// lives in the mongo subpackage.
package storage

import (
	"context"

	"github.com/storyhive/storyhive/pkg/model"
)

// NovelStore is the authoritative store for novel records.
//
// Every mutating method that returns a *model.Novel performs its change as a
// single atomic conditional operation and returns the post-image, so callers
// never need a read-modify-write sequence of their own.
type NovelStore interface {
	// Create inserts a new novel. model.ErrExists if the id is taken.
	Create(ctx context.Context, novel *model.Novel) error

	// Get returns a novel by id, model.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*model.Novel, error)

	// GetByIDs returns the novels whose ids exist, in unspecified order.
	// Missing ids are not an error.
	GetByIDs(ctx context.Context, ids []string) ([]*model.Novel, error)

	// Find runs the structured browse query: AND-combined filters, one
	// active sort, skip/limit pagination.
	Find(ctx context.Context, q model.DiscoverQuery) ([]*model.Novel, error)

	// Count counts the records matching the query's filters.
	Count(ctx context.Context, q model.DiscoverQuery) (int64, error)

	// Update applies a partial field update and returns the new record.
	Update(ctx context.Context, id string, fields map[string]interface{}) (*model.Novel, error)

	// Delete removes a novel. model.ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// IncrementViews bumps the view counter atomically.
	IncrementViews(ctx context.Context, id string) (*model.Novel, error)

	// SetRating replaces the user's vote and recomputes the aggregate stats
	// in the same atomic update.
	SetRating(ctx context.Context, novelID, userID string, value int) (*model.Novel, error)

	// UnsetRating drops the user's vote, if any, and recomputes the
	// aggregate stats in the same atomic update.
	UnsetRating(ctx context.Context, novelID, userID string) (*model.Novel, error)

	// SetCover attaches or replaces the binary cover.
	SetCover(ctx context.Context, id string, cover *model.Cover) (*model.Novel, error)

	// RemoveCover detaches the binary cover.
	RemoveCover(ctx context.Context, id string) (*model.Novel, error)

	// EnsureIndexes creates the indexes the query paths rely on.
	EnsureIndexes(ctx context.Context) error
}

// LibraryStore is the authoritative store for per-user reading state.
// All upserts are atomic per (user, novel) pair.
type LibraryStore interface {
	// Upsert creates or overwrites the entry's status and notes.
	Upsert(ctx context.Context, userID, novelID string, status model.LibraryStatus, notes string) (*model.LibraryEntry, error)

	// Get returns the entry, model.ErrNotFound if absent.
	Get(ctx context.Context, userID, novelID string) (*model.LibraryEntry, error)

	// SetStatus updates the status of an existing entry only.
	SetStatus(ctx context.Context, userID, novelID string, status model.LibraryStatus) (*model.LibraryEntry, error)

	// MarkReading upserts the entry, forcing status CURRENTLY_READING and
	// setting the last read chapter, in one atomic operation.
	MarkReading(ctx context.Context, userID, novelID string, chapter int) (*model.LibraryEntry, error)

	// Delete removes the entry. model.ErrNotFound if absent.
	Delete(ctx context.Context, userID, novelID string) error

	// Find lists a user's entries, most recently updated first.
	Find(ctx context.Context, userID string, q model.LibraryQuery) ([]*model.LibraryEntry, error)

	// Count counts a user's entries matching the query.
	Count(ctx context.Context, userID string, q model.LibraryQuery) (int64, error)

	// EnsureIndexes creates the indexes the store relies on.
	EnsureIndexes(ctx context.Context) error
}
