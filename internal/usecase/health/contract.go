package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// IndexCounter reports the number of documents in the product index.
// It fails when the index does not exist.
type IndexCounter interface {
	Count(ctx context.Context) (int64, error)
}
