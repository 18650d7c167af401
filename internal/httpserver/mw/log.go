package mw

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/shelf/internal/logger"
)

// quietPaths are health checks logged at debug level only.
var quietPaths = map[string]bool{"/healthz": true, "/readyz": true}

// Log writes one structured line per request. Server errors log at error,
// client errors at warn, health checks at debug.
func Log(loggerClient logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				// nothing written at all
				status = http.StatusOK
			}

			fields := []logger.Field{
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", status),
				logger.Int("bytes", ww.BytesWritten()),
				logger.Duration("duration", time.Since(start)),
				logger.String("remote_ip", r.RemoteAddr),
				logger.String("request_id", middleware.GetReqID(r.Context())),
			}

			log := loggerClient.Info
			switch {
			case status >= http.StatusInternalServerError:
				log = loggerClient.Error
			case status >= http.StatusBadRequest:
				log = loggerClient.Warn
			case quietPaths[r.URL.Path]:
				log = loggerClient.Debug
			}
			log("http_request", fields...)
		})
	}
}
