package middleware

import (
	"net/http"
	"strconv"
	"time"

	"credit-approval/internal/infrastructure/monitoring"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func MetricsMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				routePattern := chi.RouteContext(r.Context()).RoutePattern()
				monitoring.RecordHTTPRequest(r.Method, routePattern, strconv.Itoa(ww.Status()), time.Since(start))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
