package domain

import (
	"context"
	"fmt"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes several texts in one provider call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbeddingResult holds one vector per input text, in input order.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// InstructionEmbedder is a domain decorator that prepends instruction text before embedding.
// Some models (e5, bge) expect "query: " / "passage: " prefixes; MiniLM runs without one.
type InstructionEmbedder struct {
	inner       Embedder
	instruction string
}

// NewInstructionEmbedder creates a decorator that prepends instruction text.
func NewInstructionEmbedder(inner Embedder, instruction string) *InstructionEmbedder {
	return &InstructionEmbedder{inner: inner, instruction: instruction}
}

// Embed prepends instruction and delegates to inner embedder.
func (e *InstructionEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	result, err := e.inner.Embed(ctx, e.instruction+text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("instruction embed: %w", err)
	}
	return result, nil
}

// HealthCheck delegates to the inner embedder when it supports health checks.
func (e *InstructionEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}

// DimensionGuard rejects vectors whose length differs from the index dimension.
// A wrong-sized query vector would make every KNN comparison meaningless.
type DimensionGuard struct {
	inner Embedder
	dim   int
}

// NewDimensionGuard wraps inner; dim <= 0 disables the check.
func NewDimensionGuard(inner Embedder, dim int) *DimensionGuard {
	return &DimensionGuard{inner: inner, dim: dim}
}

// Embed delegates and validates the vector length.
func (g *DimensionGuard) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	res, err := g.inner.Embed(ctx, text)
	if err != nil {
		return EmbeddingResult{}, err //nolint:wrapcheck // transparent decorator
	}
	if g.dim > 0 && len(res.Embedding) != g.dim {
		return EmbeddingResult{}, fmt.Errorf("%w: got %d, want %d",
			ErrVectorDimMismatch, len(res.Embedding), g.dim)
	}
	return res, nil
}

// HealthCheck delegates to the inner embedder when it supports health checks.
func (g *DimensionGuard) HealthCheck(ctx context.Context) error {
	if hc, ok := g.inner.(HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}
