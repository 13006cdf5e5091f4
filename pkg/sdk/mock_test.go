package catalogsearch

import (
	"context"
	"sync"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/product"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/catalogsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	resp    searchuc.Response
	err     error
	tokens  int
	lastReq request.Request
	called  bool
}

func (m *mockSearchUC) Search(ctx context.Context, req request.Request) (searchuc.Response, error) {
	m.called = true
	m.lastReq = req
	domain.UsageFromContext(ctx).AddTokens(m.tokens)
	return m.resp, m.err
}

// --- productIndex mock ---

type mockProducts struct {
	mu       sync.Mutex
	saved    []product.Document
	created  bool
	err      error
	count    int64
	recreate int
	deleted  []string
}

func (m *mockProducts) SaveBatch(_ context.Context, docs []product.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, docs...)
	return nil
}

func (m *mockProducts) EnsureIndex(context.Context) (bool, error) { return m.created, m.err }

func (m *mockProducts) Recreate(context.Context) error {
	m.recreate++
	return m.err
}

func (m *mockProducts) Delete(_ context.Context, productID string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, productID)
	return nil
}

func (m *mockProducts) Count(context.Context) (int64, error) { return m.count, m.err }

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- pinger mock ---

type mockStore struct {
	err    error
	closed bool
}

func (m *mockStore) Ping(context.Context) error { return m.err }
func (m *mockStore) Close()                     { m.closed = true }

// --- public Embedder mocks ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

type mockBatchEmbedder struct {
	mockEmbedder
	batchFn func(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

func (m *mockBatchEmbedder) BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error) {
	return m.batchFn(ctx, texts)
}

// fixedEmbedder returns the same dim-sized vector for every text.
func fixedEmbedder(dim int) *mockEmbedder {
	return &mockEmbedder{fn: func(context.Context, string) (EmbeddingResult, error) {
		return EmbeddingResult{Embedding: make([]float32, dim), TotalTokens: 1}, nil
	}}
}

func newTestClient(search searchUseCase, products productIndex, embedder Embedder) *Client {
	cfg := (&clientConfig{dimensions: 3, workers: 1}).appConfig()
	return &Client{
		store:      &mockStore{},
		products:   products,
		searchSvc:  search,
		healthSvc:  &mockHealthUC{},
		embedder:   adaptEmbedder(embedder),
		normalizer: product.NewNormalizer(nil),
		cfg:        cfg,
	}
}

func ptr[T any](v T) *T { return &v }
