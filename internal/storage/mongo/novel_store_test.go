package mongo

import (
	"context"
	"testing"

	"github.com/storyhive/storyhive/internal/storage"
	"github.com/storyhive/storyhive/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupNovelStore(t *testing.T) storage.NovelStore {
	env := setupTestEnv(t)
	store := NewNovelStore(env.DB, "novels")
	require.NoError(t, store.EnsureIndexes(context.Background()))
	return store
}

func seedNovel(t *testing.T, store storage.NovelStore, id, title string, mutate func(*model.Novel)) *model.Novel {
	t.Helper()
	n := &model.Novel{
		ID:          id,
		Title:       title,
		Description: "a story",
		Author:      model.Author{ID: "a1", Username: "wren"},
		Genres:      []string{"fantasy"},
		Tags:        []string{"magic"},
		Status:      model.NovelOngoing,
	}
	if mutate != nil {
		mutate(n)
	}
	require.NoError(t, store.Create(context.Background(), n))
	return n
}

func TestNovelCreateAndGet(t *testing.T) {
	store := setupNovelStore(t)
	ctx := context.Background()

	seedNovel(t, store, "n1", "The Hollow Crown", nil)

	got, err := store.Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "The Hollow Crown", got.Title)
	assert.Equal(t, 0, got.Stats.RatingCount)
	assert.Nil(t, got.Stats.AverageRating)
	assert.False(t, got.CreatedAt.IsZero())

	err = store.Create(ctx, &model.Novel{ID: "n1", Title: "dup"})
	assert.ErrorIs(t, err, model.ErrExists)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestNovelSetRatingRecomputesStats(t *testing.T) {
	store := setupNovelStore(t)
	ctx := context.Background()
	seedNovel(t, store, "n1", "Rated", nil)

	n, err := store.SetRating(ctx, "n1", "userA", 4)
	require.NoError(t, err)
	require.NotNil(t, n.Stats.AverageRating)
	assert.Equal(t, 4.0, *n.Stats.AverageRating)
	assert.Equal(t, 1, n.Stats.RatingCount)

	n, err = store.SetRating(ctx, "n1", "userB", 2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, *n.Stats.AverageRating)
	assert.Equal(t, 2, n.Stats.RatingCount)

	// Re-vote replaces, never adds.
	n, err = store.SetRating(ctx, "n1", "userA", 5)
	require.NoError(t, err)
	assert.Equal(t, 3.5, *n.Stats.AverageRating)
	assert.Equal(t, 2, n.Stats.RatingCount)

	n, err = store.UnsetRating(ctx, "n1", "userB")
	require.NoError(t, err)
	assert.Equal(t, 5.0, *n.Stats.AverageRating)
	assert.Equal(t, 1, n.Stats.RatingCount)

	n, err = store.UnsetRating(ctx, "n1", "userA")
	require.NoError(t, err)
	assert.Nil(t, n.Stats.AverageRating)
	assert.Equal(t, 0, n.Stats.RatingCount)

	// Removing an absent vote stays a no-op.
	n, err = store.UnsetRating(ctx, "n1", "userA")
	require.NoError(t, err)
	assert.Equal(t, 0, n.Stats.RatingCount)
}

func TestNovelSetRatingConcurrentUsers(t *testing.T) {
	store := setupNovelStore(t)
	ctx := context.Background()
	seedNovel(t, store, "n1", "Contended", nil)

	const users = 20
	done := make(chan error, users)
	for i := 0; i < users; i++ {
		go func(i int) {
			_, err := store.SetRating(ctx, "n1", string(rune('a'+i)), 1+i%5)
			done <- err
		}(i)
	}
	for i := 0; i < users; i++ {
		require.NoError(t, <-done)
	}

	got, err := store.Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, users, got.Stats.RatingCount, "no vote may be lost")
}

func TestNovelIncrementViews(t *testing.T) {
	store := setupNovelStore(t)
	ctx := context.Background()
	seedNovel(t, store, "n1", "Watched", nil)

	n, err := store.IncrementViews(ctx, "n1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n.ViewCount)

	n, err = store.IncrementViews(ctx, "n1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n.ViewCount)

	_, err = store.IncrementViews(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestNovelFindFiltersAndSorts(t *testing.T) {
	store := setupNovelStore(t)
	ctx := context.Background()

	seedNovel(t, store, "n1", "Dragon Keep", func(n *model.Novel) {
		n.Genres = []string{"fantasy"}
		n.ViewCount = 10
	})
	seedNovel(t, store, "n2", "Star Drift", func(n *model.Novel) {
		n.Genres = []string{"science-fiction"}
		n.Status = model.NovelCompleted
		n.ViewCount = 50
	})
	seedNovel(t, store, "n3", "Dragon Song", func(n *model.Novel) {
		n.Genres = []string{"fantasy", "romance"}
		n.ViewCount = 30
	})

	q := model.DiscoverQuery{Genres: []string{"fantasy"}, SortBy: model.SortViews}
	q.Normalize(10)
	novels, err := store.Find(ctx, q)
	require.NoError(t, err)
	require.Len(t, novels, 2)
	assert.Equal(t, "n3", novels[0].ID)
	assert.Equal(t, "n1", novels[1].ID)

	total, err := store.Count(ctx, q)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	// Free text is case-insensitive over title and description.
	q = model.DiscoverQuery{Search: "dragon"}
	q.Normalize(10)
	novels, err = store.Find(ctx, q)
	require.NoError(t, err)
	assert.Len(t, novels, 2)

	// Status works alone.
	q = model.DiscoverQuery{Status: model.NovelCompleted}
	q.Normalize(10)
	novels, err = store.Find(ctx, q)
	require.NoError(t, err)
	require.Len(t, novels, 1)
	assert.Equal(t, "n2", novels[0].ID)
}

func TestNovelFindMinRating(t *testing.T) {
	store := setupNovelStore(t)
	ctx := context.Background()

	seedNovel(t, store, "n1", "Low", nil)
	seedNovel(t, store, "n2", "High", nil)
	_, err := store.SetRating(ctx, "n1", "u1", 2)
	require.NoError(t, err)
	_, err = store.SetRating(ctx, "n2", "u1", 5)
	require.NoError(t, err)

	q := model.DiscoverQuery{MinRating: 4}
	q.Normalize(10)
	novels, err := store.Find(ctx, q)
	require.NoError(t, err)
	require.Len(t, novels, 1)
	assert.Equal(t, "n2", novels[0].ID)
}

func TestNovelUpdateAndDelete(t *testing.T) {
	store := setupNovelStore(t)
	ctx := context.Background()
	seedNovel(t, store, "n1", "Before", nil)

	n, err := store.Update(ctx, "n1", map[string]interface{}{"title": "After", "total_chapters": 12})
	require.NoError(t, err)
	assert.Equal(t, "After", n.Title)
	assert.Equal(t, 12, n.TotalChapters)

	require.NoError(t, store.Delete(ctx, "n1"))
	assert.ErrorIs(t, store.Delete(ctx, "n1"), model.ErrNotFound)
}

func TestNovelCoverRoundTrip(t *testing.T) {
	store := setupNovelStore(t)
	ctx := context.Background()
	seedNovel(t, store, "n1", "Covered", nil)

	n, err := store.SetCover(ctx, "n1", &model.Cover{Data: []byte{1, 2, 3}, ContentType: "image/png"})
	require.NoError(t, err)
	require.NotNil(t, n.Cover)
	assert.Equal(t, "image/png", n.Cover.ContentType)

	n, err = store.RemoveCover(ctx, "n1")
	require.NoError(t, err)
	assert.Nil(t, n.Cover)
}

func TestNovelGetByIDsSkipsMissing(t *testing.T) {
	store := setupNovelStore(t)
	ctx := context.Background()
	seedNovel(t, store, "n1", "One", nil)
	seedNovel(t, store, "n2", "Two", nil)

	novels, err := store.GetByIDs(ctx, []string{"n2", "ghost", "n1"})
	require.NoError(t, err)
	assert.Len(t, novels, 2)

	novels, err = store.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, novels)
}
