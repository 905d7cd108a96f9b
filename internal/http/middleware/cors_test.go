package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func preflight(t *testing.T, h gin.HandlerFunc, origin string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Use(h)
	r.OPTIONS("/api/generate-slides", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodOptions, "/api/generate-slides", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowsLocalDevOrigins(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	for _, origin := range []string{"http://localhost:3000", "http://127.0.0.1:5173"} {
		t.Run(origin, func(t *testing.T) {
			t.Parallel()
			rec := preflight(t, CORS(), origin)
			if rec.Code != http.StatusNoContent {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNoContent)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != origin {
				t.Fatalf("unexpected allow-origin header: got=%q want=%q", got, origin)
			}
		})
	}
}

func TestCORSConfiguredOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := CORS("https://slides.example.com")
	if got := preflight(t, h, "https://slides.example.com").Header().Get("Access-Control-Allow-Origin"); got != "https://slides.example.com" {
		t.Fatalf("configured origin: %q", got)
	}
	if rec := preflight(t, h, "http://localhost:3000"); rec.Code != http.StatusForbidden {
		t.Fatalf("dev origin should be rejected once origins are configured, got %d", rec.Code)
	}
}
