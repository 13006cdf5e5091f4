// Package search runs the query pipeline: understand, embed, build, retrieve.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/query"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/hybrid"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	"github.com/kailas-cloud/catalogsearch/internal/logger"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
)

// Filter sources for metrics.
const (
	sourceExplicit = "explicit"
	sourceInferred = "inferred"
)

// Timeouts bound the two external calls. Zero disables the bound.
type Timeouts struct {
	Embedding time.Duration
	Retrieval time.Duration
}

// Response is the outcome of one search.
type Response struct {
	Understanding query.Understanding
	Results       []result.Result
}

// Service handles product search.
type Service struct {
	understander *query.Understander
	builder      *hybrid.Builder
	embed        Embedder
	retriever    Retriever
	timeouts     Timeouts
}

// New creates a search service.
func New(
	u *query.Understander, b *hybrid.Builder, embed Embedder, retriever Retriever, timeouts Timeouts,
) *Service {
	return &Service{understander: u, builder: b, embed: embed, retriever: retriever, timeouts: timeouts}
}

// Search resolves filters from req, embeds the cleaned text and retrieves hits.
// Upstream failures are returned as *domain.UpstreamError; deadline overruns also
// match domain.ErrUpstreamTimeout.
func (s *Service) Search(ctx context.Context, req request.Request) (Response, error) {
	log := logger.FromContext(ctx)

	start := time.Now()
	u := s.understander.Understand(req)
	observe(metrics.StageUnderstand, start)
	countFilters(req, u.Filters)

	log.Info("query understood",
		zap.String("brand", u.Filters.Brand),
		zap.Float64p("min_price", u.Filters.MinPrice),
		zap.Float64p("max_price", u.Filters.MaxPrice),
		zap.String("category", u.Filters.Category),
		zap.String("cleaned_query", u.Cleaned),
	)

	start = time.Now()
	vector, err := s.vectorize(ctx, u.EmbeddingText())
	observe(metrics.StageEmbed, start)
	if err != nil {
		metrics.SearchErrorsTotal.WithLabelValues(domain.UpstreamEmbedding).Inc()
		return Response{}, domain.NewUpstreamError(domain.UpstreamEmbedding, "embed query", err)
	}

	start = time.Now()
	hreq, err := s.builder.Build(u.Cleaned, vector, u.Filters, req.Size())
	observe(metrics.StageBuild, start)
	if err != nil {
		return Response{}, fmt.Errorf("build hybrid request: %w", err)
	}

	start = time.Now()
	results, err := s.retrieve(ctx, hreq)
	observe(metrics.StageRetrieve, start)
	if err != nil {
		metrics.SearchErrorsTotal.WithLabelValues(domain.UpstreamRetrieval).Inc()
		return Response{}, domain.NewUpstreamError(domain.UpstreamRetrieval, "hybrid search", err)
	}

	metrics.SearchResults.Observe(float64(len(results)))
	log.Debug("search completed",
		zap.Int("filters", len(hreq.Filters)),
		zap.Bool("lexical", hreq.Lexical != nil),
		zap.Int("hits", len(results)),
	)

	return Response{Understanding: u, Results: results}, nil
}

func (s *Service) vectorize(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := withTimeout(ctx, s.timeouts.Embedding)
	defer cancel()

	res, err := s.embed.Embed(ctx, text)
	if err != nil {
		return nil, timeoutAware(err)
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)
	return res.Embedding, nil
}

func (s *Service) retrieve(ctx context.Context, req hybrid.Request) ([]result.Result, error) {
	ctx, cancel := withTimeout(ctx, s.timeouts.Retrieval)
	defer cancel()

	results, err := s.retriever.Retrieve(ctx, req)
	if err != nil {
		return nil, timeoutAware(err)
	}
	return results, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// timeoutAware tags deadline overruns with domain.ErrUpstreamTimeout.
func timeoutAware(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrUpstreamTimeout) {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamTimeout, err)
	}
	return err
}

func observe(stage string, start time.Time) {
	metrics.SearchStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func countFilters(req request.Request, f query.Filters) {
	if f.IsEmpty() {
		return
	}
	count := func(name string, explicit, resolved bool) {
		if !resolved {
			return
		}
		src := sourceInferred
		if explicit {
			src = sourceExplicit
		}
		metrics.SearchFiltersTotal.WithLabelValues(name, src).Inc()
	}
	count("brand", req.Brand() != "", f.Brand != "")
	count("min_price", req.MinPrice() != nil, f.MinPrice != nil)
	count("max_price", req.MaxPrice() != nil, f.MaxPrice != nil)
	count("category", req.Category() != "", f.Category != "")
}
