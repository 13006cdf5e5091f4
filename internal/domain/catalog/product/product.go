// Package product converts catalog rows into indexable product documents.
// Normalization here is the index-time twin of query understanding: a filter
// only matches when both sides normalize a value identically.
package product

import (
	"math"
	"strings"
	"unicode"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/brand"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/category"
)

// Indexed field names.
const (
	FieldProductID          = "product_id"
	FieldTitle              = "title"
	FieldProductDetails     = "product_details"
	FieldBrand              = "brand"
	FieldCategory           = "category"
	FieldColour             = "colour"
	FieldBrandNormalized    = "brand_normalized"
	FieldCategoryNormalized = "category_normalized"
	FieldColourNormalized   = "colour_normalized"
	FieldSize               = "size"
	FieldCompetitor         = "competitor"
	FieldSellingPrice       = "selling_price"
	FieldMRP                = "mrp"
	FieldStarRating         = "star_rating"
	FieldImageURL           = "image_url"
	FieldProductURL         = "product_url"
	FieldEmbedding          = "embedding"
)

// Row is one catalog record as read from the source table. Nil means SQL NULL.
type Row struct {
	ProductID      string
	Title          *string
	ProductDetails *string
	Brand          *string
	Category       *string
	Colour         *string
	Size           *string
	Competitor     *string
	SellingPrice   *float64
	MRP            *float64
	StarRating     *float64
	ImageURL       *string
	ProductURL     *string
}

// Document is an indexable product. Empty strings and nil numerics are absent
// values and are never written to the index.
type Document struct {
	ProductID      string
	Title          string
	ProductDetails string

	Brand    string
	Category string
	Colour   string

	BrandNormalized    string
	CategoryNormalized string
	ColourNormalized   string

	Size       string
	Competitor string

	SellingPrice *float64
	MRP          *float64
	StarRating   *float64

	ImageURL   string
	ProductURL string

	Embedding []float32
}

// Normalizer builds documents using the same category map as the query path.
type Normalizer struct {
	categories *category.Map
}

// NewNormalizer creates a Normalizer. A nil map selects category.Default().
func NewNormalizer(categories *category.Map) *Normalizer {
	if categories == nil {
		categories = category.Default()
	}
	return &Normalizer{categories: categories}
}

// Normalize converts a row into a document without an embedding.
func (n *Normalizer) Normalize(row Row) Document {
	d := Document{
		ProductID:      strings.TrimSpace(row.ProductID),
		Title:          str(row.Title),
		ProductDetails: str(row.ProductDetails),
		Brand:          str(row.Brand),
		Category:       str(row.Category),
		Colour:         str(row.Colour),
		Size:           str(row.Size),
		Competitor:     str(row.Competitor),
		SellingPrice:   num(row.SellingPrice),
		MRP:            num(row.MRP),
		StarRating:     num(row.StarRating),
		ImageURL:       str(row.ImageURL),
		ProductURL:     str(row.ProductURL),
	}
	d.BrandNormalized = brand.Normalize(d.Brand)
	d.CategoryNormalized = n.categories.Normalize(d.Category)
	d.ColourNormalized = NormalizeColour(d.Colour)
	return d
}

// NormalizeColour is the canonical colour form.
func NormalizeColour(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// EmbeddingText is the text embedded for a document: title, details, normalized
// category and colour. Brand is left out; it is a filter, not a semantic signal.
func EmbeddingText(d Document) string {
	var b strings.Builder
	add := func(s string) {
		if s == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	add(d.Title)
	add(d.ProductDetails)
	if d.CategoryNormalized != "" {
		add("Category " + d.CategoryNormalized + ".")
	}
	if d.Colour != "" {
		add("Colour " + d.Colour)
	}
	return Preprocess(b.String())
}

// Preprocess lower-cases s, replaces everything except letters, digits,
// whitespace and '.' with a space, and collapses whitespace.
func Preprocess(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r == '.':
			return r
		case isLetterOrDigit(r):
			return r
		default:
			return ' '
		}
	}, strings.ToLower(s))
	return strings.Join(strings.Fields(mapped), " ")
}

func isLetterOrDigit(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	s := strings.TrimSpace(*p)
	switch strings.ToLower(s) {
	case "", "nan", "none", "null":
		return ""
	}
	return s
}

func num(p *float64) *float64 {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return nil
	}
	v := *p
	return &v
}
