package catalog

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/storyhive/storyhive/pkg/model"
)

// MockNovelStore is a mock implementation of storage.NovelStore
type MockNovelStore struct {
	mock.Mock
}

func (m *MockNovelStore) Create(ctx context.Context, novel *model.Novel) error {
	args := m.Called(ctx, novel)
	return args.Error(0)
}

func (m *MockNovelStore) Get(ctx context.Context, id string) (*model.Novel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Novel), args.Error(1)
}

func (m *MockNovelStore) GetByIDs(ctx context.Context, ids []string) ([]*model.Novel, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Novel), args.Error(1)
}

func (m *MockNovelStore) Find(ctx context.Context, q model.DiscoverQuery) ([]*model.Novel, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Novel), args.Error(1)
}

func (m *MockNovelStore) Count(ctx context.Context, q model.DiscoverQuery) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNovelStore) Update(ctx context.Context, id string, fields map[string]interface{}) (*model.Novel, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Novel), args.Error(1)
}

func (m *MockNovelStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNovelStore) IncrementViews(ctx context.Context, id string) (*model.Novel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Novel), args.Error(1)
}

func (m *MockNovelStore) SetRating(ctx context.Context, novelID, userID string, value int) (*model.Novel, error) {
	args := m.Called(ctx, novelID, userID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Novel), args.Error(1)
}

func (m *MockNovelStore) UnsetRating(ctx context.Context, novelID, userID string) (*model.Novel, error) {
	args := m.Called(ctx, novelID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Novel), args.Error(1)
}

func (m *MockNovelStore) SetCover(ctx context.Context, id string, cover *model.Cover) (*model.Novel, error) {
	args := m.Called(ctx, id, cover)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Novel), args.Error(1)
}

func (m *MockNovelStore) RemoveCover(ctx context.Context, id string) (*model.Novel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Novel), args.Error(1)
}

func (m *MockNovelStore) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockLibraryStore is a mock implementation of storage.LibraryStore
type MockLibraryStore struct {
	mock.Mock
}

func (m *MockLibraryStore) Upsert(ctx context.Context, userID, novelID string, status model.LibraryStatus, notes string) (*model.LibraryEntry, error) {
	args := m.Called(ctx, userID, novelID, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LibraryEntry), args.Error(1)
}

func (m *MockLibraryStore) Get(ctx context.Context, userID, novelID string) (*model.LibraryEntry, error) {
	args := m.Called(ctx, userID, novelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LibraryEntry), args.Error(1)
}

func (m *MockLibraryStore) SetStatus(ctx context.Context, userID, novelID string, status model.LibraryStatus) (*model.LibraryEntry, error) {
	args := m.Called(ctx, userID, novelID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LibraryEntry), args.Error(1)
}

func (m *MockLibraryStore) MarkReading(ctx context.Context, userID, novelID string, chapter int) (*model.LibraryEntry, error) {
	args := m.Called(ctx, userID, novelID, chapter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LibraryEntry), args.Error(1)
}

func (m *MockLibraryStore) Delete(ctx context.Context, userID, novelID string) error {
	args := m.Called(ctx, userID, novelID)
	return args.Error(0)
}

func (m *MockLibraryStore) Find(ctx context.Context, userID string, q model.LibraryQuery) ([]*model.LibraryEntry, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LibraryEntry), args.Error(1)
}

func (m *MockLibraryStore) Count(ctx context.Context, userID string, q model.LibraryQuery) (int64, error) {
	args := m.Called(ctx, userID, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLibraryStore) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
