package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/slideforge-backend/internal/platform/ctxutil"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

type fakeAuth struct{ userID uuid.UUID }

func (f fakeAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	switch token {
	case "good":
		return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: f.userID}), nil
	case "anonymous":
		return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{}), nil
	}
	return ctx, errors.New("bad token")
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	am := NewAuthMiddleware(logger.Nop(), fakeAuth{userID: userID})

	r := gin.New()
	me := func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.GetRequestData(c.Request.Context()).UserID.String())
	}
	r.GET("/me", am.RequireAuth(), me)
	r.POST("/me", am.RequireAuth(), me)

	cases := []struct {
		name   string
		method string
		header string
		query  string
		want   int
	}{
		{name: "missing", want: http.StatusUnauthorized},
		{name: "bearer", header: "Bearer good", want: http.StatusOK},
		{name: "lowercase bearer", header: "bearer good", want: http.StatusOK},
		{name: "query token", query: "?token=good", want: http.StatusOK},
		{name: "query token ignored on POST", method: http.MethodPost, query: "?token=good", want: http.StatusUnauthorized},
		{name: "bearer on POST", method: http.MethodPost, header: "Bearer good", want: http.StatusOK},
		{name: "rejected", header: "Bearer bad", want: http.StatusUnauthorized},
		{name: "no principal", header: "Bearer anonymous", want: http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			method := tc.method
			if method == "" {
				method = http.MethodGet
			}
			req := httptest.NewRequest(method, "/me"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tc.want, rec.Body)
			}
			if tc.want == http.StatusOK && rec.Body.String() != userID.String() {
				t.Fatalf("body: %s", rec.Body)
			}
			if tc.want != http.StatusOK && !strings.Contains(rec.Body.String(), `"error":{"message":`) {
				t.Fatalf("error envelope missing: %s", rec.Body)
			}
		})
	}
}
