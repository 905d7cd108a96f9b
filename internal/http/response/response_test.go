package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/slideforge-backend/internal/platform/apierr"
)

func respond(err error) (*httptest.ResponseRecorder, ErrorEnvelope) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondAPIError(c, err)
	var env ErrorEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestRespondAPIError(t *testing.T) {
	rec, env := respond(apierr.Validation(apierr.FieldError{Field: "theme", Message: "is required"}))
	if rec.Code != http.StatusBadRequest || env.Error.Code != "validation_error" || len(env.Error.Details) != 1 {
		t.Fatalf("validation: %d %+v", rec.Code, env)
	}

	rec, env = respond(apierr.New(http.StatusUnprocessableEntity, "generation_failed", errors.New("Failed to generate slides. Please try again.")))
	if rec.Code != http.StatusUnprocessableEntity || env.Error.Message != "Failed to generate slides. Please try again." {
		t.Fatalf("api error: %d %+v", rec.Code, env)
	}

	rec, env = respond(errors.New("pq: connection refused"))
	if rec.Code != http.StatusInternalServerError || env.Error.Message != "Internal server error" {
		t.Fatalf("opaque error leaked: %d %+v", rec.Code, env)
	}
}
