package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/slideforge-backend/internal/observability"
	"github.com/yungbote/slideforge-backend/internal/platform/ctxutil"
)

func TestAttachRequestIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachRequestIDs())
	r.GET("/x", func(c *gin.Context) {
		td := ctxutil.GetTraceData(c.Request.Context())
		c.String(http.StatusOK, td.RequestID+"|"+td.TraceID)
	})

	cases := []struct {
		name      string
		requestID string
		traceID   string
		keepReq   bool
		keepTrace bool
	}{
		{name: "client ids kept", requestID: "req-1", traceID: "trace-1", keepReq: true, keepTrace: true},
		{name: "generated when missing"},
		{name: "spaces rejected", requestID: "req 1", traceID: "trace 1"},
		{name: "oversized rejected", requestID: strings.Repeat("a", maxClientIDLen+1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.requestID != "" {
				req.Header.Set(headerRequestID, tc.requestID)
			}
			if tc.traceID != "" {
				req.Header.Set(headerTraceID, tc.traceID)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			gotReq := rec.Header().Get(headerRequestID)
			gotTrace := rec.Header().Get(headerTraceID)
			if gotReq == "" || gotTrace == "" {
				t.Fatalf("missing headers: %v", rec.Header())
			}
			if (gotReq == tc.requestID) != tc.keepReq {
				t.Fatalf("request id=%q (client sent %q)", gotReq, tc.requestID)
			}
			if (gotTrace == tc.traceID) != tc.keepTrace {
				t.Fatalf("trace id=%q (client sent %q)", gotTrace, tc.traceID)
			}
			if rec.Body.String() != gotReq+"|"+gotTrace {
				t.Fatalf("context ids %q do not match headers", rec.Body.String())
			}
		})
	}
}

func TestMetricsSkipsLatencyForStreams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.New()
	r := gin.New()
	r.Use(Metrics(m, "/stream"))
	r.GET("/stream", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/plain", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/stream", "/plain"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`sf_api_requests_total{method="GET",route="/stream",status="200"} 1.000000`,
		`sf_api_requests_total{method="GET",route="/plain",status="200"} 1.000000`,
		`sf_api_request_duration_seconds_count{method="GET",route="/plain",status="200"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, `sf_api_request_duration_seconds_count{method="GET",route="/stream"`) {
		t.Fatalf("stream latency should not be observed:\n%s", out)
	}
}
