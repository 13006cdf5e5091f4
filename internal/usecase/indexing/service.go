// Package indexing loads catalog rows, normalizes and embeds them, and writes
// the resulting documents to the product index.
package indexing

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/product"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
)

// DefaultBatchSize is the number of documents embedded and written together.
const DefaultBatchSize = 64

// Stats summarizes an indexing run.
type Stats struct {
	Indexed int
	Failed  int
	Skipped int // rows without a product id
}

// Service runs indexing over a bounded worker pool.
type Service struct {
	catalog     Catalog
	writer      Writer
	embed       domain.Embedder
	normalizer  *product.Normalizer
	poolSize    int
	batchSize   int
	instruction string
	dim         int
	progress    func(n int)
	logger      *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPoolSize sets the number of concurrent batches. Default is runtime.NumCPU() / 2, min 1.
func WithPoolSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.poolSize = size
		}
	}
}

// WithBatchSize sets the documents per embedding call and pipelined write.
func WithBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// WithInstruction prepends a document instruction (e.g. "passage: ") to every embedded text.
func WithInstruction(prefix string) Option {
	return func(s *Service) { s.instruction = prefix }
}

// WithDimensions rejects vectors whose length differs from dim.
func WithDimensions(dim int) Option {
	return func(s *Service) { s.dim = dim }
}

// WithProgress registers a callback receiving the number of rows finished by each batch.
// It is called from worker goroutines.
func WithProgress(fn func(n int)) Option {
	return func(s *Service) { s.progress = fn }
}

// WithLogger sets a custom logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an indexing service. A nil normalizer uses the built-in category map.
func New(c Catalog, w Writer, embed domain.Embedder, n *product.Normalizer, opts ...Option) *Service {
	if n == nil {
		n = product.NewNormalizer(nil)
	}
	s := &Service{
		catalog:    c,
		writer:     w,
		embed:      embed,
		normalizer: n,
		poolSize:   max(runtime.NumCPU()/2, 1),
		batchSize:  DefaultBatchSize,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Total returns the number of catalog rows to index.
func (s *Service) Total(ctx context.Context) (int, error) {
	n, err := s.catalog.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count catalog: %w", err)
	}
	return n, nil
}

// Run indexes the whole catalog. A failed batch is logged and counted; the run
// continues. The returned error is non-nil only when reading the catalog fails
// or ctx is cancelled.
func (s *Service) Run(ctx context.Context) (Stats, error) {
	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return Stats{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu    sync.Mutex
		stats Stats
		wg    sync.WaitGroup
		batch = make([]product.Document, 0, s.batchSize)
	)

	record := func(indexed, failed int) {
		mu.Lock()
		stats.Indexed += indexed
		stats.Failed += failed
		mu.Unlock()
		metrics.IndexedProductsTotal.WithLabelValues("indexed").Add(float64(indexed))
		metrics.IndexedProductsTotal.WithLabelValues("failed").Add(float64(failed))
		if s.progress != nil {
			s.progress(indexed + failed)
		}
	}

	submit := func(docs []product.Document) error {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := s.indexBatch(ctx, docs); err != nil {
				s.logger.Warn("batch failed",
					zap.String("first_id", docs[0].ProductID),
					zap.Int("size", len(docs)),
					zap.Error(err),
				)
				record(0, len(docs))
				return
			}
			record(len(docs), 0)
		})
		if err != nil {
			wg.Done()
			return fmt.Errorf("submit batch: %w", err)
		}
		return nil
	}

	readErr := s.catalog.Each(ctx, func(row product.Row) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc := s.normalizer.Normalize(row)
		if doc.ProductID == "" {
			mu.Lock()
			stats.Skipped++
			mu.Unlock()
			return nil
		}
		batch = append(batch, doc)
		if len(batch) < s.batchSize {
			return nil
		}
		full := batch
		batch = make([]product.Document, 0, s.batchSize)
		return submit(full)
	})
	if readErr == nil && len(batch) > 0 {
		readErr = submit(batch)
	}

	wg.Wait()

	s.logger.Info("indexing finished",
		zap.Int("indexed", stats.Indexed),
		zap.Int("failed", stats.Failed),
		zap.Int("skipped", stats.Skipped),
	)

	if readErr != nil {
		return stats, fmt.Errorf("read catalog: %w", readErr)
	}
	return stats, nil
}

func (s *Service) indexBatch(ctx context.Context, docs []product.Document) error {
	texts := make([]string, len(docs))
	for i := range docs {
		texts[i] = s.instruction + product.EmbeddingText(docs[i])
	}

	vectors, err := s.vectorize(ctx, texts)
	if err != nil {
		return domain.NewUpstreamError(domain.UpstreamEmbedding, "embed documents", err)
	}
	for i := range docs {
		if s.dim > 0 && len(vectors[i]) != s.dim {
			return fmt.Errorf("product %s: %w: got %d, want %d",
				docs[i].ProductID, domain.ErrVectorDimMismatch, len(vectors[i]), s.dim)
		}
		docs[i].Embedding = vectors[i]
	}

	if err := s.writer.SaveBatch(ctx, docs); err != nil {
		return domain.NewUpstreamError(domain.UpstreamRetrieval, "save documents", err)
	}
	return nil
}

// vectorize uses one provider call per batch when the embedder supports it.
func (s *Service) vectorize(ctx context.Context, texts []string) ([][]float32, error) {
	if be, ok := s.embed.(domain.BatchEmbedder); ok {
		res, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return nil, err //nolint:wrapcheck // wrapped by caller
		}
		if len(res.Embeddings) != len(texts) {
			return nil, fmt.Errorf("got %d embeddings for %d texts", len(res.Embeddings), len(texts))
		}
		return res.Embeddings, nil
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		res, err := s.embed.Embed(ctx, text)
		if err != nil {
			return nil, err //nolint:wrapcheck // wrapped by caller
		}
		if len(res.Embedding) == 0 {
			return nil, errors.New("empty embedding")
		}
		out[i] = res.Embedding
	}
	return out, nil
}
