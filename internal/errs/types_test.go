package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	custom := "CUSTOM_CODE"

	tests := []struct {
		name    string
		err     *HTTPError
		status  int
		code    string
		message string
	}{
		{
			name:    "missing field",
			err:     NewMissingFieldError("P"),
			status:  http.StatusBadRequest,
			code:    CodeMissingField,
			message: "Missing field: P",
		},
		{
			name:    "invalid field",
			err:     NewInvalidFieldError("ph"),
			status:  http.StatusBadRequest,
			code:    CodeInvalidField,
			message: "Invalid value for field ph: expected a number",
		},
		{
			name:    "bad request default code",
			err:     NewBadRequestError("nope", nil, nil),
			status:  http.StatusBadRequest,
			code:    "BAD_REQUEST",
			message: "nope",
		},
		{
			name:    "bad request custom code",
			err:     NewBadRequestError("nope", &custom, nil),
			status:  http.StatusBadRequest,
			code:    custom,
			message: "nope",
		},
		{
			name:    "not found",
			err:     NewNotFoundError("Route not found", nil),
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "Route not found",
		},
		{
			name:    "too many requests",
			err:     NewTooManyRequestsError(),
			status:  http.StatusTooManyRequests,
			code:    "TOO_MANY_REQUESTS",
			message: "Too Many Requests",
		},
		{
			name:    "internal",
			err:     NewInternalServerError(),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_SERVER_ERROR",
			message: "Internal Server Error",
		},
		{
			name:    "prediction",
			err:     NewPredictionError(errors.New("feature index out of range")),
			status:  http.StatusInternalServerError,
			code:    CodePredictionFailed,
			message: "feature index out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestMissingFieldCarriesField(t *testing.T) {
	err := NewMissingFieldError("rainfall")
	assert.Equal(t, "rainfall", err.Field)
}

func TestResponseBody(t *testing.T) {
	body, err := json.Marshal(NewMissingFieldError("P").Response())
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Missing field: P"}`, string(body))
}

func TestIsMatchesWrappedHTTPError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewMissingFieldError("K"))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))

	var httpErr *HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, "K", httpErr.Field)
}

func TestWithMessageCopies(t *testing.T) {
	base := NewBadRequestError("original", nil, nil)
	copied := base.WithMessage("changed")

	assert.Equal(t, "original", base.Message)
	assert.Equal(t, "changed", copied.Message)
	assert.Equal(t, base.Status, copied.Status)
	assert.Equal(t, base.Code, copied.Code)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores("not found"))
}
