package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain"
	domprod "github.com/kailas-cloud/catalogsearch/internal/domain/catalog/product"
)

// store is the consumer interface for the product index (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Del(ctx context.Context, key string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	IndexExists(ctx context.Context, name string) (bool, error)
	IndexDocCount(ctx context.Context, name string) (int64, error)
}

// Repo manages the product index and writes product documents.
type Repo struct {
	store  store
	layout domain.IndexLayout
	dim    int
	hnsw   HNSWConfig
}

// New creates a product repository for vectors of the given dimension.
func New(s store, layout domain.IndexLayout, dim int) *Repo {
	return &Repo{store: s, layout: layout, dim: dim, hnsw: HNSWConfig{M: 16, EFConstruct: 200}}
}

// WithHNSW configures HNSW index parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// IndexName returns the FT index name.
func (r *Repo) IndexName() string { return r.layout.IndexName() }

// EnsureIndex creates the product index unless it already exists.
// Returns true when the index was created.
func (r *Repo) EnsureIndex(ctx context.Context) (bool, error) {
	exists, err := r.store.IndexExists(ctx, r.layout.IndexName())
	if err != nil {
		return false, fmt.Errorf("check index: %w", err)
	}
	if exists {
		return false, nil
	}
	if err := r.create(ctx); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Recreate drops the index together with its documents and creates it again.
func (r *Repo) Recreate(ctx context.Context) error {
	err := r.store.DropIndex(ctx, r.layout.IndexName(), true)
	if err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index: %w", err)
	}
	return r.create(ctx)
}

func (r *Repo) create(ctx context.Context) error {
	def, err := buildIndex(r.layout, r.dim, r.hnsw)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return nil
}

// SaveBatch replaces the stored hash of every document in one pipelined round-trip,
// so values that became absent in the catalog are dropped from the index.
func (r *Repo) SaveBatch(ctx context.Context, docs []domprod.Document) error {
	if len(docs) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, 0, len(docs))
	for i := range docs {
		if docs[i].ProductID == "" {
			return fmt.Errorf("document %d: product id is required", i)
		}
		items = append(items, buildHashItem(r.layout.DocKey(docs[i].ProductID), &docs[i]))
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("save %d products: %w", len(docs), err)
	}
	return nil
}

// Delete removes a product document.
func (r *Repo) Delete(ctx context.Context, productID string) error {
	if err := r.store.Del(ctx, r.layout.DocKey(productID)); err != nil {
		return fmt.Errorf("delete product %s: %w", productID, err)
	}
	return nil
}

// Count returns the number of indexed products.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	n, err := r.store.IndexDocCount(ctx, r.layout.IndexName())
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
