package catalog

import (
	"context"

	"github.com/storyhive/storyhive/internal/events"
	"github.com/storyhive/storyhive/pkg/model"
)

// AddToLibrary puts a novel on the user's shelf. Status defaults to
// WILL_READ. Re-adding an already shelved novel overwrites status and notes
// rather than failing; the operation is an idempotent upsert keyed on the
// (user, novel) pair.
func (s *Service) AddToLibrary(ctx context.Context, userID, novelID string, status model.LibraryStatus, notes string) (*model.LibraryEntry, error) {
	if userID == "" || novelID == "" {
		return nil, model.Validationf("library entries require both a user id and a novel id")
	}
	if status == "" {
		status = model.StatusWillRead
	}
	if !status.IsValid() {
		return nil, model.Validationf("unknown library status %q", status)
	}

	// The shelf only ever references real catalog records.
	if _, err := s.novels.Get(ctx, novelID); err != nil {
		return nil, err
	}

	entry, err := s.library.Upsert(ctx, userID, novelID, status, notes)
	if err != nil {
		return nil, err
	}

	s.publishLibraryChanged(ctx, entry)
	return entry, nil
}

// UpdateLibraryStatus moves an existing shelf entry to a new status. The
// entry must already exist; use AddToLibrary to shelve.
func (s *Service) UpdateLibraryStatus(ctx context.Context, userID, novelID string, status model.LibraryStatus) (*model.LibraryEntry, error) {
	if !status.IsValid() {
		return nil, model.Validationf("unknown library status %q", status)
	}

	entry, err := s.library.SetStatus(ctx, userID, novelID, status)
	if err != nil {
		return nil, err
	}

	s.publishLibraryChanged(ctx, entry)
	return entry, nil
}

// RecordChapterRead notes reading progress. It upserts the entry and forces
// status to CURRENTLY_READING regardless of any prior status, including
// COMPLETED and DROPPED: opening a chapter is taken as proof the user is
// reading again. Progress is not monotonic; re-reading an earlier chapter
// moves the marker back.
func (s *Service) RecordChapterRead(ctx context.Context, userID, novelID string, chapter int) (*model.LibraryEntry, error) {
	if chapter < 0 {
		return nil, model.Validationf("chapter must not be negative, got %d", chapter)
	}

	if _, err := s.novels.Get(ctx, novelID); err != nil {
		return nil, err
	}

	entry, err := s.library.MarkReading(ctx, userID, novelID, chapter)
	if err != nil {
		return nil, err
	}

	s.publishLibraryChanged(ctx, entry)
	return entry, nil
}

// GetLibraryEntry returns the user's shelf entry for a novel,
// model.ErrNotFound when the novel is not shelved.
func (s *Service) GetLibraryEntry(ctx context.Context, userID, novelID string) (*model.LibraryEntry, error) {
	return s.library.Get(ctx, userID, novelID)
}

// InLibrary reports whether the user has the novel shelved.
func (s *Service) InLibrary(ctx context.Context, userID, novelID string) (bool, error) {
	_, err := s.library.Get(ctx, userID, novelID)
	if err == nil {
		return true, nil
	}
	if model.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

// RemoveFromLibrary takes the novel off the user's shelf.
func (s *Service) RemoveFromLibrary(ctx context.Context, userID, novelID string) error {
	if err := s.library.Delete(ctx, userID, novelID); err != nil {
		return err
	}

	s.publish(ctx, events.Event{Type: events.LibraryChanged, NovelID: novelID, UserID: userID, Detail: "removed"})
	return nil
}

// UserLibrary lists the user's shelf, most recently updated first,
// optionally narrowed to one status.
func (s *Service) UserLibrary(ctx context.Context, userID string, q model.LibraryQuery) (*model.Page[*model.LibraryEntry], error) {
	if q.Status != "" && !q.Status.IsValid() {
		return nil, model.Validationf("unknown library status %q", q.Status)
	}
	q.Normalize(s.opts.ListingPageSize)

	entries, err := s.library.Find(ctx, userID, q)
	if err != nil {
		return nil, err
	}
	total, err := s.library.Count(ctx, userID, q)
	if err != nil {
		return nil, err
	}

	return &model.Page[*model.LibraryEntry]{
		Data:       entries,
		Pagination: model.NewPagination(q.Page, q.Limit, total),
	}, nil
}

func (s *Service) publishLibraryChanged(ctx context.Context, entry *model.LibraryEntry) {
	s.publish(ctx, events.Event{
		Type:    events.LibraryChanged,
		NovelID: entry.NovelID,
		UserID:  entry.UserID,
		Detail:  string(entry.Status),
	})
}
