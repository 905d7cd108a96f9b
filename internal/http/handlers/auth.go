package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/slideforge-backend/internal/domain"
	"github.com/yungbote/slideforge-backend/internal/http/response"
	"github.com/yungbote/slideforge-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) tokenPayload(u *types.User, accessToken string) gin.H {
	return gin.H{
		"user":         u,
		"access_token": accessToken,
		"expires_in":   int(ah.authService.GetAccessTTL().Seconds()),
	}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req services.Credentials
	if !bindJSON(c, &req) {
		return
	}
	u, accessToken, err := ah.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, ah.tokenPayload(u, accessToken))
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	u, accessToken, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, ah.tokenPayload(u, accessToken))
}

func (ah *AuthHandler) CreateDemoUser(c *gin.Context) {
	u, accessToken, err := ah.authService.CreateDemoUser(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, ah.tokenPayload(u, accessToken))
}
