package catalogsearch

import "github.com/kailas-cloud/catalogsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation             = domain.ErrValidation
	ErrUpstreamUnavailable    = domain.ErrUpstreamUnavailable
	ErrUpstreamTimeout        = domain.ErrUpstreamTimeout
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
)
