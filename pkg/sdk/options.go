package catalogsearch

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/catalogsearch/internal/config"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	embedder Embedder

	dimensions      int
	keyPrefix       string
	hnswM           int
	hnswEFConstruct int

	brands   []string
	minScore *float64
	workers  int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis sets the Redis address and password.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithEmbedder sets the text embedding provider. Required for Search and Index.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithDimensions sets the embedding dimension. Defaults to 384 (all-MiniLM-L6-v2).
func WithDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimensions = dim
	})
}

// WithKeyPrefix sets the Redis key prefix of the index and its documents.
// Defaults to "catalog:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithHNSW configures HNSW index parameters. Defaults: M=16, EFConstruct=200.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithBrands replaces the built-in brand vocabulary used for query understanding.
func WithBrands(brands ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.brands = brands
	})
}

// WithMinScore sets the minimum hybrid score a hit needs. Defaults to 2.0.
func WithMinScore(score float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.minScore = &score
	})
}

// WithIndexWorkers sets how many batches Index embeds and writes concurrently.
func WithIndexWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// appConfig maps client options onto the service configuration.
func (c *clientConfig) appConfig() config.Config {
	cfg := config.Config{
		Database:  config.DatabaseConfig{Addrs: c.addrs, Password: c.password},
		Embedding: config.EmbeddingConfig{Provider: "sdk", Dimensions: c.dimensions},
		Search: config.SearchConfig{
			Brands:   c.brands,
			MinScore: c.minScore,
		},
		Index:   config.IndexConfig{HNSWM: c.hnswM, HNSWEFConstruct: c.hnswEFConstruct},
		Catalog: config.CatalogConfig{Workers: c.workers},
		Storage: config.StorageConfig{KeyPrefix: c.keyPrefix},
	}
	cfg.ApplyDefaults()
	return cfg
}
