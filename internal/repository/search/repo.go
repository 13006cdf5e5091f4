package search

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/product"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/hybrid"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// returnFields are loaded for every hit.
var returnFields = []string{
	product.FieldProductID,
	product.FieldTitle,
	product.FieldBrand,
	product.FieldCategory,
	product.FieldColour,
	product.FieldSellingPrice,
	product.FieldMRP,
	product.FieldStarRating,
}

var numericFields = map[string]struct{}{
	product.FieldSellingPrice: {},
	product.FieldMRP:          {},
	product.FieldStarRating:   {},
}

// Repo executes hybrid retrieval requests against the product index.
// Implements usecase/search.Retriever.
type Repo struct {
	store  store
	layout domain.IndexLayout
}

// New creates a search repository.
func New(s store, layout domain.IndexLayout) *Repo {
	return &Repo{store: s, layout: layout}
}

// Retrieve runs the kNN and lexical clauses concurrently under the request's
// structural filters, then fuses them with bool/should semantics: clause scores
// are summed per product, hits below MinScore are dropped and the rest are cut to Size.
func (r *Repo) Retrieve(ctx context.Context, req hybrid.Request) ([]result.Result, error) {
	var knn, lexical []result.Result

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sr, err := r.store.SearchKNN(gctx, &db.KNNQuery{
			IndexName:    r.layout.IndexName(),
			Filters:      req.Filters,
			VectorField:  req.KNN.Field,
			Vector:       req.KNN.Vector,
			K:            req.KNN.K,
			EFRuntime:    req.KNN.NumCandidates,
			ReturnFields: returnFields,
		})
		if err != nil {
			return fmt.Errorf("search knn: %w", err)
		}
		knn = r.toResults(sr, cosineScore)
		return nil
	})

	if req.Lexical != nil {
		g.Go(func() error {
			sr, err := r.store.SearchBM25(gctx, &db.TextQuery{
				IndexName:    r.layout.IndexName(),
				Query:        req.Lexical.Query,
				Fields:       req.Lexical.Fields,
				Filters:      req.Filters,
				Limit:        req.KNN.NumCandidates,
				ReturnFields: returnFields,
			})
			if err != nil {
				return fmt.Errorf("search bm25: %w", err)
			}
			lexical = r.toResults(sr, identity)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // already wrapped per clause
	}

	return fuse(req.MinScore, req.Size, knn, lexical), nil
}

// cosineScore maps a cosine distance in [0, 2] to (1 + cos) / 2.
func cosineScore(distance float64) float64 {
	s := 1 - distance/2
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	}
	return s
}

func identity(score float64) float64 { return score }

func (r *Repo) toResults(sr *db.SearchResult, score func(float64) float64) []result.Result {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	results := make([]result.Result, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		results = append(results, r.parseEntry(entry, score(entry.Score)))
	}
	return results
}

// parseEntry splits stored hash fields into strings and numerics.
// The product_id field wins over the key suffix when both are present.
func (r *Repo) parseEntry(entry db.SearchEntry, score float64) result.Result {
	id := r.layout.ProductID(entry.Key)
	fields := make(map[string]string, len(entry.Fields))
	numerics := make(map[string]float64, len(numericFields))

	for k, v := range entry.Fields {
		if _, ok := numericFields[k]; ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				numerics[k] = f
			}
			continue
		}
		fields[k] = v
	}
	if pid := fields[product.FieldProductID]; pid != "" {
		id = pid
	}

	return result.New(id, score, fields, numerics)
}
