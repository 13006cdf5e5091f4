package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/hybrid"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchKNNFn  func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	searchBM25Fn func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchBM25Fn != nil {
		return m.searchBM25Fn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, domain.NewIndexLayout("catalog:"))
	return repo, ms
}

func testVector() []float32 {
	vec := make([]float32, 4)
	for i := range vec {
		vec[i] = 0.1
	}
	return vec
}

func mustTerm(t *testing.T, field, value string) filter.Condition {
	t.Helper()
	c, err := filter.NewTerm(field, value)
	if err != nil {
		t.Fatalf("NewTerm: %v", err)
	}
	return c
}

func testRequest(t *testing.T, lexical string) hybrid.Request {
	t.Helper()
	req := hybrid.Request{
		Filters: []filter.Condition{mustTerm(t, "brand_normalized", "campus")},
		KNN: hybrid.KNN{
			Field:         "embedding",
			Vector:        testVector(),
			K:             200,
			NumCandidates: 500,
		},
		MinScore: 0,
		Size:     10,
	}
	if lexical != "" {
		req.Lexical = &hybrid.Lexical{Query: lexical, Fields: []string{"title", "product_details"}}
	}
	return req
}
