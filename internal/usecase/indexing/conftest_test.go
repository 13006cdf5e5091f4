package indexing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/product"
)

// --- Mocks ---

type mockCatalog struct {
	rows   []product.Row
	err    error
	failAt int // Each returns err after this many rows when > 0
}

func (m *mockCatalog) Count(_ context.Context) (int, error) {
	if m.err != nil && m.failAt == 0 {
		return 0, m.err
	}
	return len(m.rows), nil
}

func (m *mockCatalog) Each(_ context.Context, fn func(product.Row) error) error {
	for i, r := range m.rows {
		if m.err != nil && i == m.failAt {
			return m.err
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	if m.err != nil && m.failAt >= len(m.rows) {
		return m.err
	}
	return nil
}

type mockWriter struct {
	mu      sync.Mutex
	batches [][]product.Document
	failOn  string // product id whose batch fails
}

func (m *mockWriter) SaveBatch(_ context.Context, docs []product.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range docs {
		if m.failOn != "" && d.ProductID == m.failOn {
			return errors.New("pipeline failed")
		}
	}
	m.batches = append(m.batches, docs)
	return nil
}

func (m *mockWriter) docs() map[string]product.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]product.Document)
	for _, b := range m.batches {
		for _, d := range b {
			out[d.ProductID] = d
		}
	}
	return out
}

// mockEmbedder supports single-text embedding only.
type mockEmbedder struct {
	mu    sync.Mutex
	dim   int
	err   error
	calls int
	texts []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.texts = append(m.texts, text)
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: make([]float32, m.dim), TotalTokens: 1}, nil
}

// mockBatchEmbedder also implements domain.BatchEmbedder.
type mockBatchEmbedder struct {
	mockEmbedder
	batchCalls int
}

func (m *mockBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	m.texts = append(m.texts, texts...)
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, m.dim)
	}
	return domain.BatchEmbeddingResult{Embeddings: out, TotalTokens: len(texts)}, nil
}

// --- Helpers ---

func sp(s string) *string { return &s }

func fp(v float64) *float64 { return &v }

func testRows(n int) []product.Row {
	rows := make([]product.Row, n)
	for i := range rows {
		rows[i] = product.Row{
			ProductID:    fmt.Sprintf("P%d", i+1),
			Title:        sp(fmt.Sprintf("Runner %d", i+1)),
			Brand:        sp(" Campus "),
			Category:     sp("Sports Shoes"),
			SellingPrice: fp(999),
		}
	}
	return rows
}

func hasPrefixAll(texts []string, prefix string) bool {
	for _, t := range texts {
		if !strings.HasPrefix(t, prefix) {
			return false
		}
	}
	return len(texts) > 0
}
