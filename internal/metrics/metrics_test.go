package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/", want: "/"},
		{path: "/health", want: "/health"},
		{path: "/static/css/style.css", want: "/static/*"},
		{path: "/static", want: "other"},
		{path: "/wp-admin", want: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizeRoute(tt.path); got != tt.want {
				t.Fatalf("normalizeRoute(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestMiddlewareCountsRequests(t *testing.T) {
	m := New(prometheus.NewRegistry())
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/health", "/health", "/nope"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/health", "GET", "200")); got != 2 {
		t.Fatalf("health requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("other", "GET", "404")); got != 1 {
		t.Fatalf("not found requests = %v, want 1", got)
	}
}

func TestRateLimited(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.RateLimited()
	m.RateLimited()

	if got := testutil.ToFloat64(m.RateLimitDropped); got != 2 {
		t.Fatalf("dropped = %v, want 2", got)
	}

	var nilMetrics *Metrics
	nilMetrics.RateLimited()
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.RateLimited()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "http_ratelimit_dropped_total 1") {
		t.Fatalf("exposition missing counter:\n%s", rr.Body.String())
	}
}
