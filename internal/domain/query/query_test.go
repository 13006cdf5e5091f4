package query

import (
	"testing"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/brand"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/category"
	"github.com/kailas-cloud/catalogsearch/internal/domain/query/cleaner"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
)

func ptr(v float64) *float64 { return &v }

func newUnderstander(t *testing.T, mode category.Mode) *Understander {
	t.Helper()
	b, err := brand.NewResolver(brand.DefaultBrands, brand.DefaultThreshold)
	if err != nil {
		t.Fatalf("brand resolver: %v", err)
	}
	inf, err := category.NewResolver(category.Default(), mode, category.DefaultThreshold)
	if err != nil {
		t.Fatalf("category resolver: %v", err)
	}
	c, err := cleaner.New(nil, false)
	if err != nil {
		t.Fatalf("cleaner: %v", err)
	}
	return NewUnderstander(b, category.Default(), inf, c)
}

func mustRequest(t *testing.T, q, b, cat string, minP, maxP *float64) request.Request {
	t.Helper()
	r, err := request.New(q, b, cat, minP, maxP, request.DefaultSize)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return r
}

func TestUnderstand_CampusUnder2000(t *testing.T) {
	u := newUnderstander(t, category.ModeDisabled)
	got := u.Understand(mustRequest(t, "campus shoes under 2000", "", "", nil, nil))

	if got.Filters.Brand != "campus" {
		t.Errorf("Brand = %q, want campus", got.Filters.Brand)
	}
	if got.Filters.MaxPrice == nil || *got.Filters.MaxPrice != 2000 {
		t.Errorf("MaxPrice = %v, want 2000", got.Filters.MaxPrice)
	}
	if got.Filters.MinPrice != nil {
		t.Errorf("MinPrice = %v, want nil", *got.Filters.MinPrice)
	}
	if got.Filters.Category != "" {
		t.Errorf("Category = %q, want empty (inference disabled)", got.Filters.Category)
	}
	if got.Cleaned != "shoes" {
		t.Errorf("Cleaned = %q, want shoes", got.Cleaned)
	}
}

func TestUnderstand_ExplicitWins(t *testing.T) {
	u := newUnderstander(t, category.ModeExact)
	got := u.Understand(mustRequest(t, "nike sneakers under 3000", " Puma ", "Sports Shoes", ptr(100), ptr(1500)))

	if got.Filters.Brand != "puma" {
		t.Errorf("Brand = %q, want puma", got.Filters.Brand)
	}
	if *got.Filters.MaxPrice != 1500 || *got.Filters.MinPrice != 100 {
		t.Errorf("prices = [%v, %v]", *got.Filters.MinPrice, *got.Filters.MaxPrice)
	}
	if got.Filters.Category != "sports_shoes" {
		t.Errorf("Category = %q", got.Filters.Category)
	}
	// explicit max differs from the phrase, so the phrase stays; brand "puma" is not in the text
	if got.Cleaned != "nike sneakers under 3000" {
		t.Errorf("Cleaned = %q", got.Cleaned)
	}
}

func TestUnderstand_ExplicitPriceMatchingPhraseIsStripped(t *testing.T) {
	u := newUnderstander(t, category.ModeDisabled)
	got := u.Understand(mustRequest(t, "red kurta under 999", "", "", nil, ptr(999)))
	if got.Cleaned != "red kurta" {
		t.Errorf("Cleaned = %q, want red kurta", got.Cleaned)
	}
}

func TestUnderstand_BothBoundsAndAudience(t *testing.T) {
	u := newUnderstander(t, category.ModeDisabled)
	got := u.Understand(mustRequest(t, "Running Shoes for Men above 500 below 2500", "", "", nil, nil))
	if *got.Filters.MinPrice != 500 || *got.Filters.MaxPrice != 2500 {
		t.Errorf("prices = [%v, %v]", *got.Filters.MinPrice, *got.Filters.MaxPrice)
	}
	if got.Cleaned != "running shoes" {
		t.Errorf("Cleaned = %q", got.Cleaned)
	}
}

func TestUnderstand_CategoryInference(t *testing.T) {
	u := newUnderstander(t, category.ModeExact)
	got := u.Understand(mustRequest(t, "black formal shoes", "", "", nil, nil))
	if got.Filters.Category != "formal_shoes" {
		t.Errorf("Category = %q, want formal_shoes", got.Filters.Category)
	}
	if got.Cleaned != "black formal shoes" {
		t.Errorf("Cleaned = %q, category text must stay", got.Cleaned)
	}
}

func TestUnderstand_EverythingStripped(t *testing.T) {
	u := newUnderstander(t, category.ModeDisabled)
	got := u.Understand(mustRequest(t, "Nike for men", "", "", nil, nil))
	if got.Cleaned != "" {
		t.Errorf("Cleaned = %q, want empty", got.Cleaned)
	}
	if got.EmbeddingText() != "nike for men" {
		t.Errorf("EmbeddingText() = %q", got.EmbeddingText())
	}
}

func TestUnderstand_CleanedIsStable(t *testing.T) {
	u := newUnderstander(t, category.ModeDisabled)
	first := u.Understand(mustRequest(t, "adidas shoes above 500 for girls", "", "", nil, nil))
	second := u.Understand(mustRequest(t, first.Cleaned, first.Filters.Brand, "", first.Filters.MinPrice, first.Filters.MaxPrice))
	if second.Cleaned != first.Cleaned {
		t.Errorf("re-understanding changed text: %q -> %q", first.Cleaned, second.Cleaned)
	}
}

func TestFilters_IsEmpty(t *testing.T) {
	if !(Filters{}).IsEmpty() {
		t.Error("zero Filters should be empty")
	}
	if (Filters{MaxPrice: ptr(1)}).IsEmpty() {
		t.Error("Filters with a price should not be empty")
	}
}

// Price phrases are extracted once, from the raw query. A trigger word separated
// from its number by a brand or audience word is left in the cleaned text.
func TestUnderstand_PriceExtractedBeforeCleaning(t *testing.T) {
	u := newUnderstander(t, category.ModeDisabled)

	tests := []struct {
		q       string
		brand   string
		cleaned string
	}{
		{"under nike 2000 shoes", "nike", "under 2000 shoes"},
		{"over boys women 2000", "", "over 2000"},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			got := u.Understand(mustRequest(t, tt.q, "", "", nil, nil))
			if got.Filters.Brand != tt.brand {
				t.Errorf("Brand = %q, want %q", got.Filters.Brand, tt.brand)
			}
			if got.Filters.MaxPrice != nil || got.Filters.MinPrice != nil {
				t.Errorf("prices = (%v, %v), want none", got.Filters.MinPrice, got.Filters.MaxPrice)
			}
			if got.Cleaned != tt.cleaned {
				t.Errorf("Cleaned = %q, want %q", got.Cleaned, tt.cleaned)
			}
		})
	}
}
