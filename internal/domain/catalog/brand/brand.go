// Package brand resolves a brand mention in a free-text query against a fixed vocabulary.
package brand

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/catalogsearch/internal/domain/textmatch"
)

// DefaultThreshold is the minimum partial similarity (0-100) for a brand to resolve.
const DefaultThreshold = 80

// DefaultBrands is the built-in vocabulary. Order is significant: on equal scores the
// earlier brand wins.
var DefaultBrands = []string{"nike", "adidas", "campus", "puma", "reebok", "skechers"}

// Normalize is the canonical brand form shared by documents and queries.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Resolver is a fuzzy brand matcher. It is immutable and safe for concurrent use.
type Resolver struct {
	brands    []string
	threshold float64
}

// NewResolver validates the vocabulary and threshold. Brands are normalized;
// blank entries and duplicates are rejected.
func NewResolver(brands []string, threshold int) (*Resolver, error) {
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("brand threshold must be between 0 and 100, got %d", threshold)
	}

	seen := make(map[string]struct{}, len(brands))
	norm := make([]string, 0, len(brands))
	for i, b := range brands {
		n := Normalize(b)
		if n == "" {
			return nil, fmt.Errorf("brand %d is blank", i)
		}
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("duplicate brand %q", n)
		}
		seen[n] = struct{}{}
		norm = append(norm, n)
	}
	return &Resolver{brands: norm, threshold: float64(threshold)}, nil
}

// Resolve scores the lower-cased query against every brand and returns the
// first-seen best brand when its score reaches the threshold.
func (r *Resolver) Resolve(query string) (string, bool) {
	q := strings.ToLower(query)
	if strings.TrimSpace(q) == "" {
		return "", false
	}
	idx, score := textmatch.BestMatch(q, r.brands)
	if idx < 0 || score < r.threshold {
		return "", false
	}
	return r.brands[idx], true
}
