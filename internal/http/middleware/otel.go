package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Tracing starts a server span per request; a no-op until a tracer provider
// is installed.
func Tracing(service string) gin.HandlerFunc {
	return otelgin.Middleware(service, otelgin.WithFilter(func(r *http.Request) bool {
		return r.URL.Path != "/healthcheck"
	}))
}
