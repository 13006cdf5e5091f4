package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/catalogsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
)

// --- Mocks ---

type mockSearcher struct {
	resp    searchuc.Response
	err     error
	tokens  int
	panics  bool
	called  bool
	lastReq request.Request
}

func (m *mockSearcher) Search(ctx context.Context, req request.Request) (searchuc.Response, error) {
	m.called = true
	m.lastReq = req
	if m.panics {
		panic("boom")
	}
	if m.tokens > 0 {
		domain.UsageFromContext(ctx).AddTokens(m.tokens)
	}
	return m.resp, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

// --- Helpers ---

func newTestRouter(s Searcher, h HealthChecker, apiKeys ...string) http.Handler {
	if h == nil {
		h = &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}}
	}
	return NewRouter(NewServer(s, h, 10, nil), apiKeys, nil)
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func ptr[T any](v T) *T { return &v }
