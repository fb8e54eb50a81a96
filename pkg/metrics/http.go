package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HTTPMiddleware returns chi middleware that counts and times requests.
// Requests are labelled with the matched route pattern, so path parameters
// do not create new series. Unmatched requests are labelled "unmatched".
func (m *Metrics) HTTPMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		})
	}
}
