package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tickstream/logger"
)

// RequestLogger returns a Gin middleware that logs every request with
// method, path, status code, and latency. Health checks are skipped.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isHealthEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path = path + "?" + q
		}

		fields := map[string]interface{}{
			"method":  c.Request.Method,
			"path":    path,
			"status":  status,
			"latency": latency.String(),
			"client":  c.ClientIP(),
		}
		if id := c.GetString("request_id"); id != "" {
			fields["request_id"] = id
		}

		logByStatus(fields, status)
	}
}

func isHealthEndpoint(path string) bool {
	return path == "/health" || path == "/version"
}

// logByStatus logs request fields at the appropriate level based on HTTP status code.
func logByStatus(fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		logger.Error("Request completed", fields)
	case status >= 400:
		logger.Warn("Request completed", fields)
	default:
		logger.Debug("Request completed", fields)
	}
}
