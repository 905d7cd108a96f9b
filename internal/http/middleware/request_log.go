package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/slideforge-backend/internal/platform/ctxutil"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

// RequestLogger writes one line per request once the handler chain returns;
// for streaming routes that is when the stream closes.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []any{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		fields = append(fields, ctxutil.LogFields(c.Request.Context())...)
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields = append(fields, "error", errs.String())
		}

		switch {
		case c.IsAborted() && status == http.StatusUnauthorized:
			log.Debug("HTTP request", fields...)
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
