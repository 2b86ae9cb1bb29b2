package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechkit/logger"
)

// slowRequest marks requests worth flagging in logs. Full pipeline runs are
// expected to exceed it.
const slowRequest = 30 * time.Second

// RequestLogger returns a Gin middleware that logs every request with method,
// path, status code and latency. Probe paths are skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isProbe(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": latency.Milliseconds(),
			"client":      c.ClientIP(),
		}
		if id := c.GetString(RequestIDKey); id != "" {
			fields["request_id"] = id
		}
		if c.Request.ContentLength > 0 {
			fields[logger.FieldBytes] = c.Request.ContentLength
		}
		if latency > slowRequest {
			fields["slow"] = true
		}
		if len(c.Errors) > 0 {
			fields["error"] = c.Errors.Last().Error()
		}
		logByStatus(log, fields, status)
	}
}

func isProbe(path string) bool {
	switch path {
	case "/health", "/ready", "/version", "/status":
		return true
	}
	return false
}

// logByStatus logs request fields at the level matching the HTTP status code.
// If log is nil, the global logger is used.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Info("Request completed", fields)
	}
}
