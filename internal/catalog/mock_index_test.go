package catalog

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/storyhive/storyhive/internal/search"
	"github.com/storyhive/storyhive/pkg/model"
)

// MockIndex is a mock implementation of search.Index
type MockIndex struct {
	mock.Mock
}

func (m *MockIndex) EnsureIndex(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockIndex) Upsert(ctx context.Context, doc model.SearchDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockIndex) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockIndex) Query(ctx context.Context, q search.Query) (*search.Result, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*search.Result), args.Error(1)
}
