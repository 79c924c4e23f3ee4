package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/slotmachine-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidFormat    = "INVALID_FORMAT"
	CodeMissingField     = "MISSING_FIELD"
	CodeInvalidField     = "INVALID_FIELD"
	CodeDuplicateStudent = "DUPLICATE_STUDENT"
	CodePlayerNotFound   = "PLAYER_NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrInvalidStudentNumber):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidFormat, "Invalid student number format"}}
	case errors.Is(err, model.ErrMissingName):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingField, "First name and last name are required"}}
	case errors.Is(err, model.ErrMissingResult):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingField, "Result is required"}}
	case errors.Is(err, model.ErrMissingDatePlayed):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingField, "Date played is required"}}
	case errors.Is(err, model.ErrNameTooLong):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidField, "Names must be at most 50 characters"}}
	case errors.Is(err, model.ErrDateOutOfRange):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidField, "Date played must fall between 1678 and 2262"}}
	case errors.Is(err, model.ErrInvalidRetryCount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidField, "Retry count must not be negative"}}
	case errors.Is(err, model.ErrDuplicateStudent):
		return &httpError{http.StatusConflict, APIError{CodeDuplicateStudent, "Student number already registered"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
