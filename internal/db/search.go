package db

import "github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"

// KNNQuery is the input for vector similarity search.
// Entries come back ordered by ascending distance; Score holds the raw distance.
type KNNQuery struct {
	IndexName   string
	Filters     []filter.Condition
	VectorField string
	Vector      []float32
	K           int
	// EFRuntime widens the HNSW candidate list at query time; 0 keeps the index default.
	EFRuntime    int
	ScoreAlias   string
	ReturnFields []string
}

// TextQuery is the input for BM25 text search over one or more TEXT fields.
// Query is free text; terms are OR-ed.
type TextQuery struct {
	IndexName    string
	Query        string
	Fields       []string
	Filters      []filter.Condition
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
