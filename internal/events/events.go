// Package events publishes structured observability events. Publishing is
// best-effort everywhere: a failing collaborator never fails the operation
// that produced the event.
package events

import (
	"context"
	"time"
)

// Type names an observability event.
type Type string

const (
	NovelCreated    Type = "novel.created"
	NovelUpdated    Type = "novel.updated"
	NovelDeleted    Type = "novel.deleted"
	RatingChanged   Type = "rating.changed"
	LibraryChanged  Type = "library.changed"
	IndexSyncFailed Type = "index.sync_failed"
	SearchFallback  Type = "search.fallback"
)

// Event is a structured record of something the catalog did or failed to do.
type Event struct {
	Type    Type      `json:"type"`
	NovelID string    `json:"novelId,omitempty"`
	UserID  string    `json:"userId,omitempty"`
	Detail  string    `json:"detail,omitempty"`
	At      time.Time `json:"at"`
}

// Publisher delivers events to the observability collaborator.
type Publisher interface {
	// Publish sends one event. Callers treat errors as log-worthy only.
	Publish(ctx context.Context, evt Event) error

	// Close releases resources.
	Close() error
}

// Nop discards every event. Used when no collaborator is configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, evt Event) error { return nil }
func (Nop) Close() error                                 { return nil }
