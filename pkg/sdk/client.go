package catalogsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/app"
	"github.com/kailas-cloud/catalogsearch/internal/config"
	dbRedis "github.com/kailas-cloud/catalogsearch/internal/db/redis"
	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/product"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/catalogsearch/internal/usecase/health"
	"github.com/kailas-cloud/catalogsearch/internal/usecase/indexing"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for mocks in tests.
type searchUseCase interface {
	Search(ctx context.Context, req request.Request) (searchuc.Response, error)
}

type productIndex interface {
	indexing.Writer
	EnsureIndex(ctx context.Context) (bool, error)
	Recreate(ctx context.Context) error
	Delete(ctx context.Context, productID string) error
	Count(ctx context.Context) (int64, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

type pinger interface {
	Ping(ctx context.Context) error
	Close()
}

// Client is the catalogsearch SDK entry point.
type Client struct {
	store      pinger
	products   productIndex
	searchSvc  searchUseCase
	healthSvc  healthUseCase
	embedder   domain.Embedder
	normalizer *product.Normalizer
	cfg        config.Config
	obs        *observer
}

// New creates a Client and connects to Redis.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if len(cfg.addrs) == 0 {
		return nil, errors.New("catalogsearch: database address required (use WithRedis)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	appCfg := cfg.appConfig()
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    appCfg.Database.Addrs,
		Password: appCfg.Database.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("catalogsearch: create redis store: %w", err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("catalogsearch: database not ready: %w", err)
	}

	c, err := wireClient(store, appCfg, adaptEmbedder(cfg.embedder), obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(store *dbRedis.Store, cfg config.Config, embedder domain.Embedder, obs *observer) (*Client, error) {
	categories, err := app.CategoryMap(cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("catalogsearch: %w", err)
	}

	queryEmbedder := domain.NewDimensionGuard(embedder, cfg.Embedding.Dimensions)
	searchSvc, err := app.NewSearchService(cfg, store, queryEmbedder)
	if err != nil {
		return nil, fmt.Errorf("catalogsearch: %w", err)
	}
	products := app.NewProductRepo(cfg, store)

	var checker healthuc.EmbeddingChecker
	if hc, ok := embedder.(domain.HealthChecker); ok {
		checker = hc
	}

	return &Client{
		store:      store,
		products:   products,
		searchSvc:  searchSvc,
		healthSvc:  healthuc.New(store, checker, products),
		embedder:   embedder,
		normalizer: product.NewNormalizer(categories),
		cfg:        cfg,
		obs:        obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// EnsureIndex creates the product index if it does not exist and reports
// whether it was created.
func (c *Client) EnsureIndex(ctx context.Context) (created bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ensure_index", start, err, "created", created) }()

	created, err = c.products.EnsureIndex(ctx)
	if err != nil {
		return false, fmt.Errorf("ensure index: %w", err)
	}
	return created, nil
}

// RecreateIndex drops the index with all its documents and creates it again.
func (c *Client) RecreateIndex(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("recreate_index", start, err) }()

	if err = c.products.Recreate(ctx); err != nil {
		return fmt.Errorf("recreate index: %w", err)
	}
	return nil
}

// Count returns the number of indexed products.
func (c *Client) Count(ctx context.Context) (n int64, err error) {
	start := time.Now()
	defer func() { c.obs.observe("count", start, err) }()

	n, err = c.products.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// Index normalizes, embeds and stores products. A failed batch is counted in
// IndexStats.Failed and does not stop the remaining batches.
func (c *Client) Index(ctx context.Context, products []Product) (stats IndexStats, err error) {
	start := time.Now()
	defer func() {
		c.obs.observe("index", start, err, "indexed", stats.Indexed, "failed", stats.Failed)
	}()

	rows := make([]product.Row, len(products))
	for i := range products {
		rows[i] = productToRow(&products[i])
	}

	svc := indexing.New(sliceCatalog(rows), c.products, c.embedder, c.normalizer,
		indexing.WithPoolSize(c.cfg.Catalog.Workers),
		indexing.WithBatchSize(c.cfg.Catalog.BatchSize),
		indexing.WithDimensions(c.cfg.Embedding.Dimensions),
	)
	s, err := svc.Run(ctx)
	if err != nil {
		return IndexStats{}, fmt.Errorf("index: %w", err)
	}
	return IndexStats(s), nil
}

// Delete removes one product from the index. Deleting an absent product is not an error.
func (c *Client) Delete(ctx context.Context, productID string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete", start, err, "product_id", productID) }()

	if productID == "" {
		return domain.NewValidationError("product_id", "is required")
	}
	if err = c.products.Delete(ctx, productID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Search runs a hybrid product search.
func (c *Client) Search(ctx context.Context, q Query) (resp Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err, "hits", len(resp.Hits)) }()

	size := q.Size
	if size == 0 {
		size = c.cfg.Search.DefaultSize
	}
	req, err := request.New(q.Text, q.Brand, q.Category, q.MinPrice, q.MaxPrice, size)
	if err != nil {
		return Response{}, err //nolint:wrapcheck // validation error is user-facing
	}

	ctx, usage := domain.NewContextWithUsage(ctx)
	out, err := c.searchSvc.Search(ctx, req)
	if err != nil {
		return Response{}, fmt.Errorf("search: %w", err)
	}
	return responseFromService(out, usage.TotalTokens), nil
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status    string            // "ok", "degraded", "error"
	Checks    map[string]string // component -> "ok"/"error"
	Documents int64
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:    string(report.Status),
		Checks:    checks,
		Documents: report.Documents,
	}
}

// sliceCatalog serves in-memory products to the indexing pipeline.
type sliceCatalog []product.Row

func (s sliceCatalog) Count(context.Context) (int, error) { return len(s), nil }

func (s sliceCatalog) Each(ctx context.Context, fn func(product.Row) error) error {
	for _, r := range s {
		if err := ctx.Err(); err != nil {
			return err //nolint:wrapcheck // caller wraps
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}
