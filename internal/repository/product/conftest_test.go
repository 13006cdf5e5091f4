package product

import (
	"context"
	"testing"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain"
)

const testVectorDim = 384

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn     func(ctx context.Context, items []db.HashSetItem) error
	delFn           func(ctx context.Context, key string) error
	createIndexFn   func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn     func(ctx context.Context, name string, deleteDocs bool) error
	indexExistsFn   func(ctx context.Context, name string) (bool, error)
	indexDocCountFn func(ctx context.Context, name string) (int64, error)
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string, deleteDocs bool) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name, deleteDocs)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) IndexDocCount(ctx context.Context, name string) (int64, error) {
	if m.indexDocCountFn != nil {
		return m.indexDocCountFn(ctx, name)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, domain.NewIndexLayout("catalog:"), testVectorDim), ms
}

func ptr(f float64) *float64 { return &f }
