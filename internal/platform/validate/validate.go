// Package validate checks request structs against their `binding` tags, the
// same tags gin reads, and reports failures as apierr field details.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/slideforge-backend/internal/platform/apierr"
)

var std = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct returns nil, an *apierr.Error with one FieldError per failed field,
// or the validator's own error for non-struct input.
func Struct(s any) error {
	return FromError(std.Struct(s))
}

// FromError converts validator.ValidationErrors into a 400 with details.
// Other errors pass through unchanged.
func FromError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	details := make([]apierr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, apierr.FieldError{Field: fieldPath(fe), Message: message(fe)})
	}
	return apierr.Validation(details...)
}

// fieldPath drops the root struct name: "StreamRequest.slides[1].content"
// becomes "slides[1].content".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s%s", fe.Param(), unit)
	case "max":
		return fmt.Sprintf("must be at most %s%s", fe.Param(), unit)
	case "email":
		return "must be a valid email address"
	case "hexcolor":
		return "must be a hex color"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// Binding satisfies gin's binding.StructValidator so ShouldBindJSON runs the
// same rules and field names as Struct. Errors come back raw; pass them
// through FromError.
type Binding struct{}

func (Binding) ValidateStruct(obj any) error {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	return std.Struct(obj)
}

func (Binding) Engine() any { return std }
