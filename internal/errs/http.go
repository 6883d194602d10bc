// Package errs defines custom error types and utilities.
//
// Its purpose is to create specific error structures
// (e.g. FieldErrors for validation or HTTPError for API responses)
// so clients receive meaningful and consistent error messages.
//
//   - Return one error shape to API clients: {"error": "<message>"}.
//   - Keep a machine-friendly code and the offending field for logs.
//   - Play nicely with Go's standard errors package.
package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "ph", "error": "must not exceed 14" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "MISSING_FIELD"), logged only.
//   - Message: human-friendly message, sent to the client.
//   - Status: HTTP status code.
//   - Field: the request field the error is about, if any.
//   - Errors: per-field validation errors, logged only.
type HTTPError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Field   string       `json:"field,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Response is the JSON body written for every error.
type Response struct {
	Error string `json:"error"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError.
//
// It does NOT compare Code/Status; it only matches the type.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
		Field:   e.Field,
		Errors:  e.Errors,
	}
}

// Response returns the client-facing body for this error.
func (e *HTTPError) Response() Response {
	return Response{Error: e.Message}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
