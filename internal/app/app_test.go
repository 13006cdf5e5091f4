package app

import (
	"testing"

	"github.com/kailas-cloud/catalogsearch/internal/config"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
)

func testConfig() config.Config {
	cfg := config.Config{
		HTTP:      config.HTTPConfig{Port: 8080},
		Database:  config.DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: config.EmbeddingConfig{BaseURL: "http://localhost/v1"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func mustRequest(t *testing.T, q string) request.Request {
	t.Helper()
	req, err := request.New(q, "", "", nil, nil, request.DefaultSize)
	if err != nil {
		t.Fatal(err)
	}
	return req
}

func TestCategoryMap_DefaultAndOverride(t *testing.T) {
	cfg := testConfig()
	m, err := CategoryMap(cfg.Search)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Normalize("Sports Shoes"); got != "sports_shoes" {
		t.Errorf("default map: %q", got)
	}

	cfg.Search.Categories = []config.CategoryEntry{{Key: "sneakers", Variants: []string{"Trainers"}}}
	m, err = CategoryMap(cfg.Search)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Normalize("trainers"); got != "sneakers" {
		t.Errorf("override map: %q", got)
	}
}

func TestCategoryMap_Conflict(t *testing.T) {
	cfg := testConfig()
	cfg.Search.Categories = []config.CategoryEntry{
		{Key: "a", Variants: []string{"x"}},
		{Key: "b", Variants: []string{"x"}},
	}
	if _, err := CategoryMap(cfg.Search); err == nil {
		t.Fatal("expected conflict error")
	}
}

func TestNewUnderstander_Defaults(t *testing.T) {
	cfg := testConfig()
	m, _ := CategoryMap(cfg.Search)
	u, err := NewUnderstander(cfg.Search, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := u.Understand(mustRequest(t, "campus sports shoes under 2000"))
	if got.Filters.Brand != "campus" {
		t.Errorf("brand = %q", got.Filters.Brand)
	}
	if got.Filters.Category != "" {
		t.Errorf("category inference must be off by default, got %q", got.Filters.Category)
	}
}

func TestNewUnderstander_CategoryInference(t *testing.T) {
	cfg := testConfig()
	cfg.Search.CategoryInference = "exact"
	m, _ := CategoryMap(cfg.Search)
	u, err := NewUnderstander(cfg.Search, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := u.Understand(mustRequest(t, "sports shoes"))
	if got.Filters.Category != "sports_shoes" {
		t.Errorf("category = %q, want sports_shoes", got.Filters.Category)
	}
}

func TestNewUnderstander_CustomBrands(t *testing.T) {
	cfg := testConfig()
	cfg.Search.Brands = []string{"Bata"}
	m, _ := CategoryMap(cfg.Search)
	u, err := NewUnderstander(cfg.Search, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := u.Understand(mustRequest(t, "bata sandals")); got.Filters.Brand != "bata" {
		t.Errorf("brand = %q, want bata", got.Filters.Brand)
	}
	if got := u.Understand(mustRequest(t, "nike shoes")); got.Filters.Brand != "" {
		t.Errorf("nike is not in the configured vocabulary, got %q", got.Filters.Brand)
	}
}

func TestNewUnderstander_InvalidBrands(t *testing.T) {
	cfg := testConfig()
	cfg.Search.Brands = []string{"nike", "NIKE"}
	if _, err := NewUnderstander(cfg.Search, nil); err == nil {
		t.Fatal("expected duplicate brand error")
	}
}

func TestNewBuilder(t *testing.T) {
	cfg := testConfig()
	b, err := NewBuilder(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := b.Config()
	if c.K != 200 || c.NumCandidates != 500 || c.MinScore != 2.0 || c.Dimensions != 384 {
		t.Errorf("builder config = %+v", c)
	}
	if c.CategoryFilter {
		t.Error("category filter must be off by default")
	}
}

func TestLayout(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.KeyPrefix = "shop:"
	l := Layout(cfg)
	if l.IndexName() != "shop:products" || l.DocKey("P1") != "shop:product:P1" {
		t.Errorf("layout = %s / %s", l.IndexName(), l.DocKey("P1"))
	}
}
