package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

func TestHTTPMiddleware(t *testing.T) {
	m := New(WithRegistry(prometheus.NewRegistry()))

	r := chi.NewRouter()
	r.Use(m.HTTPMiddleware())
	r.Get("/state", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})
	r.Put("/state/{key}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/state", nil),
		httptest.NewRequest(http.MethodGet, "/state", nil),
		httptest.NewRequest(http.MethodPut, "/state/a", nil),
		httptest.NewRequest(http.MethodPut, "/state/b", nil),
		httptest.NewRequest(http.MethodGet, "/nope", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	tests := []struct {
		route, method, status string
		want                  float64
	}{
		{"/state", "GET", "200", 2},
		{"/state/{key}", "PUT", "400", 2},
		{"unmatched", "GET", "404", 1},
	}
	for _, tt := range tests {
		got := metricCounterValue(t, m.httpRequests.WithLabelValues(tt.route, tt.method, tt.status))
		if got != tt.want {
			t.Errorf("http_requests_total{%s %s %s} = %v, want %v", tt.route, tt.method, tt.status, got, tt.want)
		}
	}

	h := m.httpDuration.WithLabelValues("/state/{key}").(prometheus.Histogram)
	if got := metricHistogramCount(t, h); got != 2 {
		t.Errorf("http_request_duration_seconds{/state/{key}} count = %v, want 2", got)
	}
}
