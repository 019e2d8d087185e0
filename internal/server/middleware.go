package server

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"rating-tracker/internal/common/logger"
)

// requestLogger logs one structured line per request.
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info("Request handled", map[string]interface{}{
				"method":    r.Method,
				"path":      r.URL.Path,
				"status":    ww.Status(),
				"duration":  time.Since(start).String(),
				"requestId": chimiddleware.GetReqID(r.Context()),
			})
		})
	}
}
