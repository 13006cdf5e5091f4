// Package query turns a raw search request into resolved structural filters and
// the cleaned text used for lexical and semantic matching.
package query

import (
	"strings"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/brand"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/category"
	"github.com/kailas-cloud/catalogsearch/internal/domain/query/cleaner"
	"github.com/kailas-cloud/catalogsearch/internal/domain/query/price"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
)

// Filters are the structural constraints resolved for a query. Empty strings and
// nil pointers mean absent. Brand and Category are stored in the same normalized
// form as the indexed *_normalized fields.
type Filters struct {
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	Category string
}

// IsEmpty reports whether no filter is populated.
func (f Filters) IsEmpty() bool {
	return f.Brand == "" && f.MinPrice == nil && f.MaxPrice == nil && f.Category == ""
}

// Understanding is the outcome of query understanding.
type Understanding struct {
	Filters Filters
	// Cleaned is the lower-cased query with resolved filter text removed.
	Cleaned string
	// Lowered is the lower-cased raw query.
	Lowered string
}

// EmbeddingText is the text to embed: the cleaned query, or the lower-cased raw
// query when cleaning removed everything.
func (u Understanding) EmbeddingText() string {
	if u.Cleaned != "" {
		return u.Cleaned
	}
	return strings.TrimSpace(u.Lowered)
}

// Understander resolves filters and cleans query text. It holds only read-only
// configuration and is safe for concurrent use.
type Understander struct {
	brands     *brand.Resolver
	categories *category.Map
	inferer    *category.Resolver
	cleaner    *cleaner.Cleaner
}

// NewUnderstander wires the resolvers. A nil inferer disables category inference;
// a nil categories map leaves explicit categories only lower-cased.
func NewUnderstander(
	brands *brand.Resolver,
	categories *category.Map,
	inferer *category.Resolver,
	c *cleaner.Cleaner,
) *Understander {
	return &Understander{brands: brands, categories: categories, inferer: inferer, cleaner: c}
}

// Understand resolves filters for req. Explicit values win over inferred ones.
// An extracted price phrase is stripped from the text when it was used as the
// bound or when it agrees with the explicit bound; otherwise it stays as text.
func (u *Understander) Understand(req request.Request) Understanding {
	lowered := strings.ToLower(req.Query())

	var f Filters
	if b := brand.Normalize(req.Brand()); b != "" {
		f.Brand = b
	} else if b, ok := u.brands.Resolve(lowered); ok {
		f.Brand = b
	}

	var spans []price.Match
	f.MaxPrice, spans = resolvePrice(req.MaxPrice(), lowered, price.ExtractMax, spans)
	f.MinPrice, spans = resolvePrice(req.MinPrice(), lowered, price.ExtractMin, spans)

	if c := req.Category(); c != "" {
		f.Category = u.normalizeCategory(c)
	} else if u.inferer != nil {
		if c, ok := u.inferer.Resolve(lowered); ok {
			f.Category = c
		}
	}

	return Understanding{
		Filters: f,
		Cleaned: u.cleaner.Clean(lowered, f.Brand, spans...),
		Lowered: lowered,
	}
}

func (u *Understander) normalizeCategory(raw string) string {
	if u.categories == nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return u.categories.Normalize(raw)
}

func resolvePrice(
	explicit *float64,
	lowered string,
	extract func(string) (price.Match, bool),
	spans []price.Match,
) (*float64, []price.Match) {
	m, found := extract(lowered)
	if explicit != nil {
		if found && m.Value == *explicit {
			spans = append(spans, m)
		}
		return explicit, spans
	}
	if !found {
		return nil, spans
	}
	v := m.Value
	return &v, append(spans, m)
}
