package request

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum query length in characters.
	MaxQueryLength = 512
	DefaultSize    = 10
	MinSize        = 1
	MaxSize        = 50
)

// Request is a validated product search query. Explicit filters always take
// precedence over values inferred from the query text.
type Request struct {
	query    string
	brand    string
	category string
	minPrice *float64
	maxPrice *float64
	size     int
}

// New validates search parameters. Validation happens before any external call:
// an empty or over-long query, a size outside [MinSize, MaxSize] and a negative or
// non-finite price are rejected with domain.ErrValidation.
func New(query, brand, category string, minPrice, maxPrice *float64, size int) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, domain.NewValidationError("q", "is required")
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Request{}, domain.NewValidationError("q", fmt.Sprintf("too long (max %d chars)", MaxQueryLength))
	}
	if size < MinSize || size > MaxSize {
		return Request{}, domain.NewValidationError("size", fmt.Sprintf("must be between %d and %d", MinSize, MaxSize))
	}
	if err := validatePrice("min_price", minPrice); err != nil {
		return Request{}, err
	}
	if err := validatePrice("max_price", maxPrice); err != nil {
		return Request{}, err
	}

	return Request{
		query:    query,
		brand:    strings.TrimSpace(brand),
		category: strings.TrimSpace(category),
		minPrice: copyFloat(minPrice),
		maxPrice: copyFloat(maxPrice),
		size:     size,
	}, nil
}

func validatePrice(field string, p *float64) error {
	if p == nil {
		return nil
	}
	if math.IsNaN(*p) || math.IsInf(*p, 0) {
		return domain.NewValidationError(field, "must be a finite number")
	}
	if *p < 0 {
		return domain.NewValidationError(field, "must not be negative")
	}
	return nil
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Query returns the raw query text.
func (r Request) Query() string { return r.query }

// Brand returns the explicit brand, or "" when absent.
func (r Request) Brand() string { return r.brand }

// Category returns the explicit category, or "" when absent.
func (r Request) Category() string { return r.category }

// MinPrice returns the explicit lower price bound, or nil.
func (r Request) MinPrice() *float64 { return copyFloat(r.minPrice) }

// MaxPrice returns the explicit upper price bound, or nil.
func (r Request) MaxPrice() *float64 { return copyFloat(r.maxPrice) }

// Size returns the number of results to return.
func (r Request) Size() int { return r.size }
