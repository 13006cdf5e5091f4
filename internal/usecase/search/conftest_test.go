package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/brand"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/category"
	"github.com/kailas-cloud/catalogsearch/internal/domain/query"
	"github.com/kailas-cloud/catalogsearch/internal/domain/query/cleaner"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/hybrid"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// --- Mocks ---

type mockEmbedder struct {
	vec      []float32
	tokens   int
	err      error
	block    bool // wait for ctx cancellation
	lastText string
	called   bool
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.called = true
	m.lastText = text
	if m.block {
		<-ctx.Done()
		return domain.EmbeddingResult{}, ctx.Err()
	}
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: m.tokens}, nil
}

type mockRetriever struct {
	results []result.Result
	err     error
	block   bool
	lastReq hybrid.Request
	called  bool
}

func (m *mockRetriever) Retrieve(ctx context.Context, req hybrid.Request) ([]result.Result, error) {
	m.called = true
	m.lastReq = req
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.results, m.err
}

// --- Helpers ---

const testDim = 3

func newTestService(t *testing.T, emb Embedder, ret Retriever, timeouts Timeouts) *Service {
	t.Helper()

	brands, err := brand.NewResolver(brand.DefaultBrands, brand.DefaultThreshold)
	if err != nil {
		t.Fatalf("brand resolver: %v", err)
	}
	cl, err := cleaner.New(nil, false)
	if err != nil {
		t.Fatalf("cleaner: %v", err)
	}
	b, err := hybrid.NewBuilder(hybrid.Config{MinScore: 2.0, Dimensions: testDim})
	if err != nil {
		t.Fatalf("builder: %v", err)
	}
	u := query.NewUnderstander(brands, category.Default(), nil, cl)
	return New(u, b, emb, ret, timeouts)
}

func newRequest(t *testing.T, q, brandName string, maxPrice *float64) request.Request {
	t.Helper()
	req, err := request.New(q, brandName, "", nil, maxPrice, request.DefaultSize)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return req
}

func ptr(v float64) *float64 { return &v }
