package errs

import (
	"fmt"
	"net/http"
)

const (
	// CodeMissingField marks a request without one of the required features.
	CodeMissingField = "MISSING_FIELD"

	// CodeInvalidField marks a feature whose value is not a JSON number.
	CodeInvalidField = "INVALID_FIELD"

	// CodePredictionFailed marks an error raised by the model during inference.
	CodePredictionFailed = "PREDICTION_FAILED"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
//   - code: optional custom code string (if nil, defaults to "BAD_REQUEST")
//   - errors: optional slice of field errors (validation errors)
func NewBadRequestError(message string, code *string, errors []FieldError) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusBadRequest,
		Errors:  errors,
	}
}

// NewMissingFieldError reports a required field absent from the request body.
func NewMissingFieldError(field string) *HTTPError {
	return &HTTPError{
		Code:    CodeMissingField,
		Message: "Missing field: " + field,
		Status:  http.StatusBadRequest,
		Field:   field,
	}
}

// NewInvalidFieldError reports a field whose value is not a number.
func NewInvalidFieldError(field string) *HTTPError {
	return &HTTPError{
		Code:    CodeInvalidField,
		Message: fmt.Sprintf("Invalid value for field %s: expected a number", field),
		Status:  http.StatusBadRequest,
		Field:   field,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)),
		Message: http.StatusText(http.StatusTooManyRequests),
		Status:  http.StatusTooManyRequests,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, not the real internal error message.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}

// NewPredictionError wraps a model failure into a 500 carrying the failure text.
func NewPredictionError(err error) *HTTPError {
	return &HTTPError{
		Code:    CodePredictionFailed,
		Message: err.Error(),
		Status:  http.StatusInternalServerError,
	}
}

// ValidationError converts a generic validation error into a 400 Bad Request HTTPError.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), nil, nil)
}
