package ui

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bankinfer/internal"
	"bankinfer/internal/metrics"
)

// requestLogger logs one line per request and records its latency under the
// matched route pattern
func requestLogger(logger *internal.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		m.ObserveRequest(c.FullPath(), c.Request.Method, status, elapsed)

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("%s %s -> %d in %s", c.Request.Method, c.Request.URL.Path, status, elapsed)
		case status >= http.StatusBadRequest:
			logger.Warn("%s %s -> %d in %s", c.Request.Method, c.Request.URL.Path, status, elapsed)
		default:
			logger.Debug("%s %s -> %d in %s", c.Request.Method, c.Request.URL.Path, status, elapsed)
		}
	}
}

// instrument is the chi counterpart of requestLogger
func instrument(logger *internal.Logger, m *metrics.Metrics, route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		m.ObserveRequest(route, r.Method, rec.status, time.Since(start))
		if rec.status >= http.StatusInternalServerError {
			logger.Error("%s %s -> %d", r.Method, r.URL.Path, rec.status)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
