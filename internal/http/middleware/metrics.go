package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/slideforge-backend/internal/observability"
)

// Metrics records request counts and latency. Routes listed in streaming
// hold the connection for a whole generation run, so they are counted but
// kept out of the latency histogram and the in-flight gauge.
func Metrics(m *observability.Metrics, streaming ...string) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	long := make(map[string]bool, len(streaming))
	for _, r := range streaming {
		long[r] = true
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if long[route] {
			c.Next()
			m.ObserveAPIStream(c.Request.Method, route, strconv.Itoa(c.Writer.Status()))
			return
		}

		start := time.Now()
		m.APIInflightInc()
		defer m.APIInflightDec()
		c.Next()
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
