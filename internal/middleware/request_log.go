package middleware

import (
	"net/http"
	"time"

	"pet-registry/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLog:
// - Si lg != nil, loguea método, path, status, bytes y duración por request,
//   con el request id que setea chi/middleware.RequestID.
// - Si lg == nil => modo tests: passthrough sin ruido.
func RequestLog(lg logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if lg == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			lg.Info("http request", map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  chimw.GetReqID(r.Context()),
			})
		})
	}
}
