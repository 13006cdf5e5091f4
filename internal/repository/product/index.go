package product

import (
	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain"
	domprod "github.com/kailas-cloud/catalogsearch/internal/domain/catalog/product"
)

// tagSeparator keeps commas inside brand/category values from splitting tags.
const tagSeparator = "|"

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// buildIndex returns the product index schema: searchable text, normalized
// tag twins, numeric price/rating and the dense embedding.
func buildIndex(layout domain.IndexLayout, dim int, hnsw HNSWConfig) (*db.IndexDefinition, error) {
	return db.NewIndex(layout.IndexName()).
		Prefix(layout.DocPrefix()).
		Text(domprod.FieldTitle, 0).
		Text(domprod.FieldProductDetails, 0).
		Tag(domprod.FieldBrandNormalized, tagSeparator).
		Tag(domprod.FieldCategoryNormalized, tagSeparator).
		Tag(domprod.FieldColourNormalized, tagSeparator).
		Numeric(domprod.FieldSellingPrice).
		Numeric(domprod.FieldMRP).
		Numeric(domprod.FieldStarRating).
		VectorHNSW(domprod.FieldEmbedding, dim, db.DistanceCosine, hnsw.M, hnsw.EFConstruct).
		Build()
}
