package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/v1/datasets/{id}/similar", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/datasets/{id}/similar", "404"))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/datasets/abc/similar", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/datasets/{id}/similar", "404"))
	if after-before != 1 {
		t.Errorf("expected one request recorded under the route pattern, got %v", after-before)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected duration observations")
	}
}

func TestMiddleware_ImplicitOK(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/health", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/health", "200")) - before; got != 1 {
		t.Errorf("expected 1 request, got %v", got)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", "unknown"},
		{"/api/v1/report", "/api/v1/report"},
	}
	for _, tt := range tests {
		if got := normalizePath(tt.input); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestObserveBuild(t *testing.T) {
	okBefore := testutil.ToFloat64(indexBuildsTotal.WithLabelValues(OutcomeOK))
	errBefore := testutil.ToFloat64(indexBuildsTotal.WithLabelValues(OutcomeError))

	ObserveBuild(time.Millisecond, 12, 340, nil)
	if got := testutil.ToFloat64(indexDocuments); got != 12 {
		t.Errorf("documents gauge = %v, want 12", got)
	}
	if got := testutil.ToFloat64(indexVocabularySize); got != 340 {
		t.Errorf("vocabulary gauge = %v, want 340", got)
	}

	ObserveBuild(time.Millisecond, 99, 99, errors.New("boom"))
	if got := testutil.ToFloat64(indexDocuments); got != 12 {
		t.Errorf("failed build moved documents gauge to %v", got)
	}
	if got := testutil.ToFloat64(indexBuildsTotal.WithLabelValues(OutcomeOK)) - okBefore; got != 1 {
		t.Errorf("ok builds delta = %v", got)
	}
	if got := testutil.ToFloat64(indexBuildsTotal.WithLabelValues(OutcomeError)) - errBefore; got != 1 {
		t.Errorf("error builds delta = %v", got)
	}
}

func TestObserveQuery(t *testing.T) {
	before := testutil.ToFloat64(recommendQueriesTotal.WithLabelValues("unknown", OutcomeInvalid))
	ObserveQuery("", OutcomeInvalid, time.Microsecond)
	if got := testutil.ToFloat64(recommendQueriesTotal.WithLabelValues("unknown", OutcomeInvalid)) - before; got != 1 {
		t.Errorf("expected blank mode to be recorded as unknown, delta %v", got)
	}
}
