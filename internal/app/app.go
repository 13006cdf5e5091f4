// Package app assembles the components shared by the API server and the indexer.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/config"
	dbRedis "github.com/kailas-cloud/catalogsearch/internal/db/redis"
	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/brand"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/category"
	"github.com/kailas-cloud/catalogsearch/internal/domain/query"
	"github.com/kailas-cloud/catalogsearch/internal/domain/query/cleaner"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/hybrid"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
	"github.com/kailas-cloud/catalogsearch/internal/repository/embcache"
	productrepo "github.com/kailas-cloud/catalogsearch/internal/repository/product"
	searchrepo "github.com/kailas-cloud/catalogsearch/internal/repository/search"
	openaiEmb "github.com/kailas-cloud/catalogsearch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/catalogsearch/internal/usecase/embedding"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
)

// OpenStore connects to Redis and waits until it answers.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (*dbRedis.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	return store, nil
}

// Layout returns the key layout for the configured prefix.
func Layout(cfg config.Config) domain.IndexLayout {
	return domain.NewIndexLayout(cfg.Storage.KeyPrefix)
}

// CategoryMap returns the configured category dictionary, or the built-in one.
// The same map must back both indexing and query understanding.
func CategoryMap(cfg config.SearchConfig) (*category.Map, error) {
	if len(cfg.Categories) == 0 {
		return category.Default(), nil
	}
	entries := make([]category.Entry, len(cfg.Categories))
	for i, e := range cfg.Categories {
		entries[i] = category.Entry{Key: e.Key, Variants: e.Variants}
	}
	m, err := category.NewMap(entries)
	if err != nil {
		return nil, fmt.Errorf("category map: %w", err)
	}
	return m, nil
}

// NewUnderstander builds query understanding from the search configuration.
func NewUnderstander(cfg config.SearchConfig, categories *category.Map) (*query.Understander, error) {
	brands := cfg.Brands
	if len(brands) == 0 {
		brands = brand.DefaultBrands
	}
	br, err := brand.NewResolver(brands, cfg.BrandThreshold)
	if err != nil {
		return nil, fmt.Errorf("brand resolver: %w", err)
	}

	var audience []string
	if len(cfg.AudiencePhrases) > 0 {
		audience = cfg.AudiencePhrases
	}
	cl, err := cleaner.New(audience, cfg.BrandWordBoundary)
	if err != nil {
		return nil, fmt.Errorf("query cleaner: %w", err)
	}

	var inferer *category.Resolver
	mode := category.Mode(cfg.CategoryInference)
	if mode != category.ModeDisabled && mode != "" {
		inferer, err = category.NewResolver(categories, mode, cfg.CategoryThreshold)
		if err != nil {
			return nil, fmt.Errorf("category resolver: %w", err)
		}
	}

	return query.NewUnderstander(br, categories, inferer, cl), nil
}

// NewBuilder builds the hybrid request builder.
func NewBuilder(cfg config.Config) (*hybrid.Builder, error) {
	minScore := config.DefaultMinScore
	if cfg.Search.MinScore != nil {
		minScore = *cfg.Search.MinScore
	}
	b, err := hybrid.NewBuilder(hybrid.Config{
		K:              cfg.Search.K,
		NumCandidates:  cfg.Search.NumCandidates,
		MinScore:       minScore,
		CategoryFilter: cfg.Search.CategoryFilter,
		Dimensions:     cfg.Embedding.Dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("hybrid builder: %w", err)
	}
	return b, nil
}

// NewProductRepo returns the product index repository.
func NewProductRepo(cfg config.Config, store *dbRedis.Store) *productrepo.Repo {
	return productrepo.New(store, Layout(cfg), cfg.Embedding.Dimensions).WithHNSW(productrepo.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	})
}

// NewBaseEmbedder creates the OpenAI-compatible transport.
func NewBaseEmbedder(cfg config.EmbeddingConfig, logger *zap.Logger) *openaiEmb.Embedder {
	dims := 0
	if cfg.SendDimensions {
		dims = cfg.Dimensions
	}
	return openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: dims,
		Provider:   cfg.Provider,
		Timeout:    time.Duration(cfg.TimeoutMs) * time.Millisecond,
		Logger:     logger,
	})
}

// NewQueryEmbedder assembles the query-side chain:
// OpenAI -> Cached -> Instrumented -> DimensionGuard -> Instruction.
func NewQueryEmbedder(cfg config.Config, store *dbRedis.Store, logger *zap.Logger) domain.Embedder {
	ecfg := cfg.Embedding
	var embedder domain.Embedder = NewBaseEmbedder(ecfg, logger)

	if ecfg.Cache.Enabled && store != nil {
		embedder = embcache.New(embedder, store, embcache.Options{
			Prefix: Layout(cfg).EmbeddingCachePrefix(),
			Model:  ecfg.Model,
			TTL:    time.Duration(ecfg.Cache.TTLHours) * time.Hour,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, ecfg.Provider, ecfg.Model, logger)
	embedder = domain.NewDimensionGuard(embedder, ecfg.Dimensions)

	// Outermost, so the cache key includes the instruction.
	if ecfg.QueryInstruction != "" {
		return domain.NewInstructionEmbedder(embedder, ecfg.QueryInstruction)
	}
	return embedder
}

// NewDocumentEmbedder assembles the batch-capable indexing chain: OpenAI -> Instrumented.
// The document instruction is applied by the indexing service.
func NewDocumentEmbedder(cfg config.EmbeddingConfig, logger *zap.Logger) *embeddinguc.InstrumentedEmbedder {
	return embeddinguc.NewInstrumentedEmbedder(NewBaseEmbedder(cfg, logger), cfg.Provider, cfg.Model, logger)
}

// NewSearchService wires the full query pipeline.
func NewSearchService(
	cfg config.Config, store *dbRedis.Store, embedder domain.Embedder,
) (*searchuc.Service, error) {
	categories, err := CategoryMap(cfg.Search)
	if err != nil {
		return nil, err
	}
	u, err := NewUnderstander(cfg.Search, categories)
	if err != nil {
		return nil, err
	}
	b, err := NewBuilder(cfg)
	if err != nil {
		return nil, err
	}
	return searchuc.New(u, b, embedder, searchrepo.New(store, Layout(cfg)), searchuc.Timeouts{
		Embedding: cfg.Search.EmbeddingTimeout(),
		Retrieval: cfg.Search.RetrievalTimeout(),
	}), nil
}
