package chi

import (
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
)

// Error codes.
const (
	codeBadRequest          = "bad_request"
	codeValidationFailed    = "validation_failed"
	codeUnauthorized        = "unauthorized"
	codeUpstreamUnavailable = "upstream_unavailable"
	codeUpstreamTimeout     = "upstream_timeout"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks"`
	Documents int64             `json:"documents"`
}

// requestFilters echoes the explicit filters as received.
type requestFilters struct {
	MaxPrice *float64 `json:"max_price"`
	MinPrice *float64 `json:"min_price"`
	Brand    *string  `json:"brand"`
	Category *string  `json:"category"`
}

// resolvedFilters are the filters actually applied after query understanding.
type resolvedFilters struct {
	Brand        *string  `json:"brand"`
	MinPrice     *float64 `json:"min_price"`
	MaxPrice     *float64 `json:"max_price"`
	Category     *string  `json:"category"`
	CleanedQuery string   `json:"cleaned_query"`
}

type searchHit struct {
	ProductID    string   `json:"product_id"`
	Title        string   `json:"title"`
	Brand        string   `json:"brand"`
	Category     string   `json:"category"`
	Colour       string   `json:"colour"`
	SellingPrice *float64 `json:"selling_price"`
	StarRating   *float64 `json:"star_rating"`
	Score        float64  `json:"score"`
}

type searchResponse struct {
	Query    string          `json:"query"`
	Filters  requestFilters  `json:"filters"`
	Resolved resolvedFilters `json:"resolved"`
	Count    int             `json:"count"`
	Results  []searchHit     `json:"results"`
}

func searchResponseFrom(p SearchParams, resp searchuc.Response) searchResponse {
	f := resp.Understanding.Filters
	hits := make([]searchHit, len(resp.Results))
	for i := range resp.Results {
		hits[i] = searchHitFrom(&resp.Results[i])
	}
	return searchResponse{
		Query: p.Q,
		Filters: requestFilters{
			MaxPrice: p.MaxPrice,
			MinPrice: p.MinPrice,
			Brand:    p.Brand,
			Category: p.Category,
		},
		Resolved: resolvedFilters{
			Brand:        optional(f.Brand),
			MinPrice:     f.MinPrice,
			MaxPrice:     f.MaxPrice,
			Category:     optional(f.Category),
			CleanedQuery: resp.Understanding.Cleaned,
		},
		Count:   len(hits),
		Results: hits,
	}
}

func searchHitFrom(r *result.Result) searchHit {
	return searchHit{
		ProductID:    r.ID(),
		Title:        r.Title(),
		Brand:        r.Brand(),
		Category:     r.Category(),
		Colour:       r.Colour(),
		SellingPrice: r.SellingPrice(),
		StarRating:   r.StarRating(),
		Score:        r.Score(),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
