package search

import (
	"context"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/hybrid"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// Embedder vectorizes the cleaned query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Retriever executes a hybrid request against the product index.
type Retriever interface {
	Retrieve(ctx context.Context, req hybrid.Request) ([]result.Result, error)
}
