package mongo

import (
	"context"
	"testing"

	"github.com/storyhive/storyhive/internal/storage"
	"github.com/storyhive/storyhive/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLibraryStore(t *testing.T) storage.LibraryStore {
	env := setupTestEnv(t)
	store := NewLibraryStore(env.DB, "library")
	require.NoError(t, store.EnsureIndexes(context.Background()))
	return store
}

func TestLibraryUpsertIsIdempotent(t *testing.T) {
	store := setupLibraryStore(t)
	ctx := context.Background()

	first, err := store.Upsert(ctx, "u1", "n1", model.StatusWillRead, "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusWillRead, first.Status)

	second, err := store.Upsert(ctx, "u1", "n1", model.StatusWillRead, "")
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())

	count, err := store.Count(ctx, "u1", model.LibraryQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "two upserts must yield one entry")
}

func TestLibraryUpsertOverwritesStatusAndNotes(t *testing.T) {
	store := setupLibraryStore(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, "u1", "n1", model.StatusWillRead, "maybe later")
	require.NoError(t, err)

	entry, err := store.Upsert(ctx, "u1", "n1", model.StatusCompleted, "done!")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, entry.Status)
	assert.Equal(t, "done!", entry.Notes)
}

func TestLibrarySetStatusRequiresEntry(t *testing.T) {
	store := setupLibraryStore(t)
	ctx := context.Background()

	_, err := store.SetStatus(ctx, "u1", "n1", model.StatusDropped)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = store.Upsert(ctx, "u1", "n1", model.StatusWillRead, "")
	require.NoError(t, err)

	entry, err := store.SetStatus(ctx, "u1", "n1", model.StatusDropped)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDropped, entry.Status)
}

func TestLibraryMarkReadingCreatesEntry(t *testing.T) {
	store := setupLibraryStore(t)
	ctx := context.Background()

	entry, err := store.MarkReading(ctx, "u1", "n1", 12)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCurrentlyReading, entry.Status)
	require.NotNil(t, entry.LastReadChapter)
	assert.Equal(t, 12, *entry.LastReadChapter)
}

func TestLibraryMarkReadingOverridesTerminalStatus(t *testing.T) {
	store := setupLibraryStore(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, "u1", "n1", model.StatusDropped, "")
	require.NoError(t, err)

	entry, err := store.MarkReading(ctx, "u1", "n1", 3)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCurrentlyReading, entry.Status)

	// Chapter numbers are not required to be monotonic.
	entry, err = store.MarkReading(ctx, "u1", "n1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, *entry.LastReadChapter)
}

func TestLibraryDelete(t *testing.T) {
	store := setupLibraryStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.Delete(ctx, "u1", "n1"), model.ErrNotFound)

	_, err := store.Upsert(ctx, "u1", "n1", model.StatusWillRead, "")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "u1", "n1"))

	_, err = store.Get(ctx, "u1", "n1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestLibraryFindByStatus(t *testing.T) {
	store := setupLibraryStore(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, "u1", "n1", model.StatusWillRead, "")
	require.NoError(t, err)
	_, err = store.Upsert(ctx, "u1", "n2", model.StatusCompleted, "")
	require.NoError(t, err)
	_, err = store.Upsert(ctx, "u2", "n1", model.StatusWillRead, "")
	require.NoError(t, err)

	q := model.LibraryQuery{Status: model.StatusWillRead}
	q.Normalize(20)
	entries, err := store.Find(ctx, "u1", q)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "n1", entries[0].NovelID)

	all := model.LibraryQuery{}
	all.Normalize(20)
	entries, err = store.Find(ctx, "u1", all)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
