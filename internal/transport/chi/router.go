package chi

import (
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/metrics"
)

// NewRouter mounts the API routes behind the standard middleware stack.
func NewRouter(s *Server, apiKeys []string, l *zap.Logger) http.Handler {
	if l == nil {
		l = zap.NewNop()
	}

	r := chirouter.NewRouter()
	r.Use(ProcessTime)
	r.Use(JSONRecoverer(l))
	r.Use(chimw.RequestID)
	r.Use(WideEvent(l))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/search", s.Search)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}
