package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/slotmachine-go/internal/metrics"
	"github.com/mcoot/slotmachine-go/internal/middleware"
)

// Metrics records each request against its route template, so query strings
// and path values do not create new series
func Metrics(rec *metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := middleware.NewResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			route := "unmatched"
			if cr := mux.CurrentRoute(r); cr != nil {
				if tpl, err := cr.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			rec.RecordRequest(r.Method, route, wrapped.Status(), time.Since(start))
		})
	}
}
