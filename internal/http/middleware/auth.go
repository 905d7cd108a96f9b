package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/slideforge-backend/internal/http/response"
	"github.com/yungbote/slideforge-backend/internal/platform/ctxutil"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

var (
	errUnauthorized = errors.New("Unauthorized")
	errNoPrincipal  = errors.New("Token carries no user")
)

// TokenVerifier turns a bearer token into a context carrying the principal.
type TokenVerifier interface {
	SetContextFromToken(ctx context.Context, token string) (context.Context, error)
}

type AuthMiddleware struct {
	log      *logger.Logger
	verifier TokenVerifier
}

func NewAuthMiddleware(log *logger.Logger, verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), verifier: verifier}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			am.reject(c, http.StatusUnauthorized, "unauthorized", errUnauthorized)
			return
		}
		ctx, err := am.verifier.SetContextFromToken(c.Request.Context(), token)
		if err != nil {
			am.log.Debug("Rejected token", append(ctxutil.LogFields(c.Request.Context()), "error", err)...)
			am.reject(c, http.StatusUnauthorized, "unauthorized", errUnauthorized)
			return
		}
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || rd.UserID == uuid.Nil {
			am.reject(c, http.StatusForbidden, "forbidden", errNoPrincipal)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (am *AuthMiddleware) reject(c *gin.Context, status int, code string, err error) {
	response.RespondError(c, status, code, err)
	c.Abort()
}

// bearerToken reads the Authorization header. GET requests may pass ?token=
// instead, since EventSource cannot set headers.
func bearerToken(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if c.Request.Method == http.MethodGet {
		return strings.TrimSpace(c.Query("token"))
	}
	return ""
}
