package result

import "github.com/kailas-cloud/catalogsearch/internal/domain/catalog/product"

// Result is a single product hit.
type Result struct {
	id       string
	score    float64
	fields   map[string]string
	numerics map[string]float64
}

// New creates a search result. fields holds stored text/tag values and numerics
// the numeric ones; absent values are simply missing from the maps.
func New(id string, score float64, fields map[string]string, numerics map[string]float64) Result {
	return Result{id: id, score: score, fields: fields, numerics: numerics}
}

// WithScore returns a copy of r carrying score.
func (r Result) WithScore(score float64) Result {
	r.score = score
	return r
}

// ID returns the product identifier.
func (r *Result) ID() string { return r.id }

// Score returns the relevance score.
func (r *Result) Score() float64 { return r.score }

// Fields returns the stored string fields.
func (r *Result) Fields() map[string]string { return r.fields }

// Numerics returns the stored numeric fields.
func (r *Result) Numerics() map[string]float64 { return r.numerics }

// Title returns the product title.
func (r *Result) Title() string { return r.fields[product.FieldTitle] }

// Brand returns the display brand.
func (r *Result) Brand() string { return r.fields[product.FieldBrand] }

// Category returns the display category.
func (r *Result) Category() string { return r.fields[product.FieldCategory] }

// Colour returns the display colour.
func (r *Result) Colour() string { return r.fields[product.FieldColour] }

// SellingPrice returns the selling price, or nil when absent.
func (r *Result) SellingPrice() *float64 { return r.numeric(product.FieldSellingPrice) }

// MRP returns the list price, or nil when absent.
func (r *Result) MRP() *float64 { return r.numeric(product.FieldMRP) }

// StarRating returns the rating, or nil when absent.
func (r *Result) StarRating() *float64 { return r.numeric(product.FieldStarRating) }

func (r *Result) numeric(name string) *float64 {
	v, ok := r.numerics[name]
	if !ok {
		return nil
	}
	return &v
}
