package middleware

import (
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/slideforge-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	maxClientIDLen = 128
)

// clientID accepts a caller-supplied correlation id only when it is short
// and printable; anything else is replaced.
func clientID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxClientIDLen {
		return ""
	}
	for _, r := range raw {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) || r == ' ' {
			return ""
		}
	}
	return raw
}

// AttachRequestIDs resolves the trace and request ids for the request,
// echoes them as response headers and tags the active span. An active span's
// trace id wins over a client header so logs line up with exported traces.
func AttachRequestIDs() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := clientID(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.NewString()
		}

		span := trace.SpanFromContext(c.Request.Context())
		var traceID string
		if sc := span.SpanContext(); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		} else if traceID = clientID(c.GetHeader(headerTraceID)); traceID == "" {
			traceID = strings.ReplaceAll(uuid.NewString(), "-", "")
		}
		span.SetAttributes(attribute.String("http.request_id", reqID))

		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{TraceID: traceID, RequestID: reqID})
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
	}
}
