package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"rca-decider/internal/common"
)

// LoggingMiddleware attaches a request-scoped logger to the context and logs each request with its latency
func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = common.NopLogger()
	}

	return func(c *gin.Context) {
		startTime := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		requestLogger := logger.With("method", method, "path", path)
		c.Request = c.Request.WithContext(common.ContextWithLogger(c.Request.Context(), requestLogger))

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"status", status,
			"latency", time.Since(startTime),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			requestLogger.Error("request completed", attrs...)
		case status >= 400:
			requestLogger.Warn("request completed", attrs...)
		default:
			requestLogger.Debug("request completed", attrs...)
		}
	}
}
