package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/slideforge-backend/internal/http/response"
	"github.com/yungbote/slideforge-backend/internal/platform/apierr"
	"github.com/yungbote/slideforge-backend/internal/platform/validate"
)

// bindJSON decodes the body into obj and answers the request on failure.
// Tag violations become a validation_error with field details.
func bindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}
	var ae *apierr.Error
	if errors.As(validate.FromError(err), &ae) {
		response.RespondAPIError(c, ae)
		return false
	}
	response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
	return false
}
