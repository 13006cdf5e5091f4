package chi

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/catalogsearch/internal/logger"
)

func TestProcessTime_SetOnImplicitOK(t *testing.T) {
	h := ProcessTime(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	v := rr.Header().Get(ProcessTimeHeader)
	if v == "" {
		t.Fatal("missing header")
	}
	if ms, err := strconv.ParseFloat(v, 64); err != nil || ms < 0 {
		t.Errorf("header %q is not a non-negative number", v)
	}
}

func TestProcessTime_SetWithoutBody(t *testing.T) {
	h := ProcessTime(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if rr.Code != http.StatusOK || rr.Header().Get(ProcessTimeHeader) == "" {
		t.Errorf("status=%d header=%q", rr.Code, rr.Header().Get(ProcessTimeHeader))
	}
}

func TestProcessTime_KeepsFirstStatus(t *testing.T) {
	h := ProcessTime(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if rr.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rr.Code)
	}
}

func TestWideEvent_LogsCanonicalLine(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core)

	var ctxLogger *zap.Logger
	h := chimw.RequestID(WideEvent(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger = logger.FromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/search?q=shoes", http.NoBody))

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	if ctxLogger == nil {
		t.Fatal("request logger not stored in context")
	}

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 http_request line, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusCreated) {
		t.Errorf("status field = %v", fields["status"])
	}
	if fields["path"] != "/search" || fields["query"] != "q=shoes" {
		t.Errorf("path/query = %v/%v", fields["path"], fields["query"])
	}
	if id, _ := fields["request_id"].(string); id == "" {
		t.Error("request_id field missing")
	}
}
