package indexing

import (
	"context"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/product"
)

// Catalog streams product rows from the source of record.
type Catalog interface {
	Count(ctx context.Context) (int, error)
	Each(ctx context.Context, fn func(product.Row) error) error
}

// Writer persists embedded product documents.
type Writer interface {
	SaveBatch(ctx context.Context, docs []product.Document) error
}
