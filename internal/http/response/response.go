package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/slideforge-backend/internal/platform/apierr"
)

type APIError struct {
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Details []apierr.FieldError `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError writes err using its apierr status and code. Anything that
// is not an *apierr.Error becomes an opaque 500.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.As(err)
	msg := ae.Error()
	if ae.Status >= http.StatusInternalServerError && ae.Code == "internal_error" {
		_ = c.Error(err)
		msg = "Internal server error"
	}
	c.JSON(ae.Status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    ae.Code,
			Details: ae.Details,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
