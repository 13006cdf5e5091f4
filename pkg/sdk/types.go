package catalogsearch

import (
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/product"
	"github.com/kailas-cloud/catalogsearch/internal/domain/query"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
)

// Product is one catalog record to index. Nil and empty values are absent and
// never written; ProductID is required.
type Product struct {
	ProductID      string
	Title          string
	ProductDetails string
	Brand          string
	Category       string
	Colour         string
	Size           string
	Competitor     string
	SellingPrice   *float64
	MRP            *float64
	StarRating     *float64
	ImageURL       string
	ProductURL     string
}

// Query is a search request. Zero values mean "not given": filters are then
// inferred from Text, and Size falls back to 10.
type Query struct {
	Text     string
	Brand    string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Size     int
}

// Filters are the filters a search ran with, explicit or inferred.
type Filters struct {
	Brand    string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// Hit is a matching product.
type Hit struct {
	ProductID    string
	Title        string
	Brand        string
	Category     string
	Colour       string
	SellingPrice *float64
	MRP          *float64
	StarRating   *float64
	Score        float64
}

// Response is the outcome of Search.
type Response struct {
	Filters Filters
	// CleanedQuery is the text that was embedded and matched lexically.
	CleanedQuery string
	Hits         []Hit
	// EmbeddingTokens is the provider token usage; zero on a cache hit.
	EmbeddingTokens int
}

// IndexStats summarizes an Index call.
type IndexStats struct {
	Indexed int
	Failed  int
	Skipped int
}

func productToRow(p *Product) product.Row {
	return product.Row{
		ProductID:      p.ProductID,
		Title:          optString(p.Title),
		ProductDetails: optString(p.ProductDetails),
		Brand:          optString(p.Brand),
		Category:       optString(p.Category),
		Colour:         optString(p.Colour),
		Size:           optString(p.Size),
		Competitor:     optString(p.Competitor),
		SellingPrice:   p.SellingPrice,
		MRP:            p.MRP,
		StarRating:     p.StarRating,
		ImageURL:       optString(p.ImageURL),
		ProductURL:     optString(p.ProductURL),
	}
}

func responseFromService(resp searchuc.Response, tokens int) Response {
	hits := make([]Hit, len(resp.Results))
	for i := range resp.Results {
		hits[i] = hitFromResult(&resp.Results[i])
	}
	return Response{
		Filters:         filtersFromQuery(resp.Understanding.Filters),
		CleanedQuery:    resp.Understanding.EmbeddingText(),
		Hits:            hits,
		EmbeddingTokens: tokens,
	}
}

func filtersFromQuery(f query.Filters) Filters {
	return Filters{
		Brand:    f.Brand,
		Category: f.Category,
		MinPrice: f.MinPrice,
		MaxPrice: f.MaxPrice,
	}
}

func hitFromResult(r *result.Result) Hit {
	return Hit{
		ProductID:    r.ID(),
		Title:        r.Title(),
		Brand:        r.Brand(),
		Category:     r.Category(),
		Colour:       r.Colour(),
		SellingPrice: r.SellingPrice(),
		MRP:          r.MRP(),
		StarRating:   r.StarRating(),
		Score:        r.Score(),
	}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
