package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Status  int
	Code    string
	Err     error
	Details []FieldError
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Validation builds the 400 error returned when a request body fails schema checks.
func Validation(details ...FieldError) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    "validation_error",
		Err:     errors.New("invalid request"),
		Details: details,
	}
}

// As extracts an *Error from err, falling back to a 500 wrapper.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae
	}
	return &Error{Status: http.StatusInternalServerError, Code: "internal_error", Err: err}
}
