// Package hybrid assembles one retrieval request that combines a lexical
// multi-field match and a vector kNN clause under non-scoring structural filters.
package hybrid

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/product"
	"github.com/kailas-cloud/catalogsearch/internal/domain/query"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
)

// Builder defaults.
const (
	DefaultK             = 200
	DefaultNumCandidates = 500
	DefaultMinScore      = 2.0
)

// DefaultLexicalFields are matched by the lexical clause.
var DefaultLexicalFields = []string{product.FieldTitle, product.FieldProductDetails}

// Lexical is a multi-field BM25 match.
type Lexical struct {
	Query  string
	Fields []string
}

// KNN is an approximate nearest-neighbour clause over a dense vector field.
type KNN struct {
	Field         string
	Vector        []float32
	K             int
	NumCandidates int
}

// Request is a complete hybrid retrieval request. Filters gate inclusion; the
// lexical and kNN clauses are OR-ed and their scores summed. Hits scoring below
// MinScore are dropped before truncation to Size.
type Request struct {
	Filters  []filter.Condition
	Lexical  *Lexical // nil when there is no text to match
	KNN      KNN
	MinScore float64
	Size     int
}

type multiMatch struct {
	Query  string   `json:"query"`
	Fields []string `json:"fields"`
}

type knnClause struct {
	Field         string    `json:"field"`
	QueryVector   []float32 `json:"query_vector"`
	K             int       `json:"k"`
	NumCandidates int       `json:"num_candidates"`
}

type shouldClause struct {
	MultiMatch *multiMatch `json:"multi_match,omitempty"`
	KNN        *knnClause  `json:"knn,omitempty"`
}

type boolQuery struct {
	Filter []filter.Condition `json:"filter"`
	Should []shouldClause     `json:"should"`
}

type body struct {
	Size     int     `json:"size"`
	MinScore float64 `json:"min_score"`
	Query    struct {
		Bool boolQuery `json:"bool"`
	} `json:"query"`
}

// MarshalJSON renders the request as a declarative search document:
// {"size","min_score","query":{"bool":{"filter":[...],"should":[...]}}}.
func (r Request) MarshalJSON() ([]byte, error) {
	var b body
	b.Size = r.Size
	b.MinScore = r.MinScore
	b.Query.Bool.Filter = r.Filters
	if b.Query.Bool.Filter == nil {
		b.Query.Bool.Filter = []filter.Condition{}
	}
	if r.Lexical != nil {
		b.Query.Bool.Should = append(b.Query.Bool.Should, shouldClause{
			MultiMatch: &multiMatch{Query: r.Lexical.Query, Fields: r.Lexical.Fields},
		})
	}
	b.Query.Bool.Should = append(b.Query.Bool.Should, shouldClause{KNN: &knnClause{
		Field:         r.KNN.Field,
		QueryVector:   r.KNN.Vector,
		K:             r.KNN.K,
		NumCandidates: r.KNN.NumCandidates,
	}})
	return json.Marshal(b)
}

// Config parameterizes the Builder. Zero values select defaults.
type Config struct {
	K              int
	NumCandidates  int
	MinScore       float64
	CategoryFilter bool
	LexicalFields  []string
	VectorField    string
	// Dimensions, when positive, is the required query vector length.
	Dimensions int
}

// Builder turns resolved filters, cleaned text and a query vector into a Request.
// It is immutable and safe for concurrent use.
type Builder struct {
	cfg Config
}

// NewBuilder applies defaults and validates cfg.
func NewBuilder(cfg Config) (*Builder, error) {
	if cfg.K == 0 {
		cfg.K = DefaultK
	}
	if cfg.NumCandidates == 0 {
		cfg.NumCandidates = DefaultNumCandidates
	}
	if len(cfg.LexicalFields) == 0 {
		cfg.LexicalFields = DefaultLexicalFields
	}
	if cfg.VectorField == "" {
		cfg.VectorField = product.FieldEmbedding
	}
	if cfg.K < 0 {
		return nil, fmt.Errorf("k must be positive, got %d", cfg.K)
	}
	if cfg.NumCandidates < cfg.K {
		return nil, fmt.Errorf("num_candidates (%d) must be >= k (%d)", cfg.NumCandidates, cfg.K)
	}
	if cfg.MinScore < 0 {
		return nil, fmt.Errorf("min_score must not be negative, got %v", cfg.MinScore)
	}
	cfg.LexicalFields = append([]string(nil), cfg.LexicalFields...)
	return &Builder{cfg: cfg}, nil
}

// Config returns the effective configuration.
func (b *Builder) Config() Config { return b.cfg }

// Build assembles the request. Filters appear in a fixed order: min price,
// max price, brand, then category when the category filter is enabled.
// An empty cleaned text omits the lexical clause.
func (b *Builder) Build(cleaned string, vector []float32, f query.Filters, size int) (Request, error) {
	if size < request.MinSize || size > request.MaxSize {
		return Request{}, fmt.Errorf("size must be between %d and %d, got %d", request.MinSize, request.MaxSize, size)
	}
	if len(vector) == 0 {
		return Request{}, fmt.Errorf("query vector is required")
	}
	if b.cfg.Dimensions > 0 && len(vector) != b.cfg.Dimensions {
		return Request{}, fmt.Errorf("query vector has %d dimensions, want %d", len(vector), b.cfg.Dimensions)
	}

	filters, err := b.filters(f)
	if err != nil {
		return Request{}, err
	}

	req := Request{
		Filters: filters,
		KNN: KNN{
			Field:         b.cfg.VectorField,
			Vector:        vector,
			K:             b.cfg.K,
			NumCandidates: b.cfg.NumCandidates,
		},
		MinScore: b.cfg.MinScore,
		Size:     size,
	}
	if cleaned != "" {
		req.Lexical = &Lexical{Query: cleaned, Fields: b.cfg.LexicalFields}
	}
	return req, nil
}

func (b *Builder) filters(f query.Filters) ([]filter.Condition, error) {
	out := make([]filter.Condition, 0, 4)

	addRange := func(gte, lte *float64) error {
		r, err := filter.NewRangeFilter(gte, lte)
		if err != nil {
			return err
		}
		c, err := filter.NewRange(product.FieldSellingPrice, r)
		if err != nil {
			return err
		}
		out = append(out, c)
		return nil
	}
	addTerm := func(field, value string) error {
		c, err := filter.NewTerm(field, value)
		if err != nil {
			return err
		}
		out = append(out, c)
		return nil
	}

	if f.MinPrice != nil {
		if err := addRange(f.MinPrice, nil); err != nil {
			return nil, fmt.Errorf("min price filter: %w", err)
		}
	}
	if f.MaxPrice != nil {
		if err := addRange(nil, f.MaxPrice); err != nil {
			return nil, fmt.Errorf("max price filter: %w", err)
		}
	}
	if f.Brand != "" {
		if err := addTerm(product.FieldBrandNormalized, f.Brand); err != nil {
			return nil, fmt.Errorf("brand filter: %w", err)
		}
	}
	if b.cfg.CategoryFilter && f.Category != "" {
		if err := addTerm(product.FieldCategoryNormalized, f.Category); err != nil {
			return nil, fmt.Errorf("category filter: %w", err)
		}
	}
	return out, nil
}
