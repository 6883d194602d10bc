package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/deppfellow/crop-recommendation/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
//   - Define a request type that binds from the body.
//   - Implement Validate() error returning an *errs.HTTPError for the first problem,
//     or validator.ValidationErrors when struct tags are used.
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. c.Bind(payload) populates the payload from the request body.
//  2. payload.Validate() applies validation rules.
//  3. Returns *errs.HTTPError (400) if either step fails.
//
// Every bind failure, including an unsupported content type, is reported as 400.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindErrorMessage(err), nil, nil)
	}

	if err := payload.Validate(); err != nil {
		var httpErr *errs.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}
		return toHTTPError(err)
	}

	return nil
}

// bindErrorMessage pulls the client-facing text out of Echo's bind error.
func bindErrorMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusUnsupportedMediaType {
			return "Request body must be JSON"
		}
		if msg, ok := he.Message.(string); ok && msg != "" {
			return msg
		}
	}
	return "Invalid request body"
}

// New returns a validator that reports fields by their JSON names.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct runs tag validation on s and converts any failure into a 400
// naming the first offending field.
func ValidateStruct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		return toHTTPError(err)
	}
	return nil
}

func toHTTPError(err error) *errs.HTTPError {
	fieldErrors := extractValidationError(err)
	if len(fieldErrors) == 0 {
		return errs.ValidationError(err)
	}

	first := fieldErrors[0]
	httpErr := errs.NewBadRequestError(
		fmt.Sprintf("Invalid field %s: %s", first.Field, first.Error),
		nil,
		fieldErrors,
	)
	httpErr.Field = first.Field
	return httpErr
}

func extractValidationError(err error) []errs.FieldError {
	var fieldErrors []errs.FieldError

	var customErrors CustomValidationErrors
	if errors.As(err, &customErrors) {
		for _, e := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: e.Field,
				Error: e.Message,
			})
		}
		return fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	for _, e := range validationErrors {
		var msg string

		switch e.Tag() {
		case "required":
			msg = "is required"

		case "gte":
			msg = fmt.Sprintf("must be at least %s", e.Param())

		case "lte":
			msg = fmt.Sprintf("must not exceed %s", e.Param())

		case "min":
			if e.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", e.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", e.Param())
			}

		case "max":
			if e.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", e.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", e.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", e.Param())

		default:
			if e.Param() != "" {
				msg = fmt.Sprintf("%s:%s", e.Tag(), e.Param())
			} else {
				msg = e.Tag()
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: e.Field(),
			Error: msg,
		})
	}

	return fieldErrors
}
