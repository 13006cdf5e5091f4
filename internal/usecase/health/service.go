package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the store is unreachable; no search can succeed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names.
const (
	ComponentDatabase  = "database"
	ComponentEmbedding = "embedding"
	ComponentIndex     = "index"
)

// Report aggregates health check results.
type Report struct {
	Status    Status
	Checks    map[string]CheckResult
	Documents int64 // indexed products; zero when the index check failed
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	embedding EmbeddingChecker
	index     IndexCounter
}

// New creates a Service. embedding and index can be nil.
func New(db DBPinger, embedding EmbeddingChecker, index IndexCounter) *Service {
	return &Service{db: db, embedding: embedding, index: index}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	var docs int64

	dbErr := s.db.Ping(ctx)
	checks[ComponentDatabase] = result(dbErr)

	if s.embedding != nil {
		checks[ComponentEmbedding] = result(s.embedding.HealthCheck(ctx))
	}

	if s.index != nil {
		if dbErr != nil {
			checks[ComponentIndex] = CheckError
		} else {
			n, err := s.index.Count(ctx)
			checks[ComponentIndex] = result(err)
			if err == nil {
				docs = n
			}
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if dbErr != nil {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks, Documents: docs}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
