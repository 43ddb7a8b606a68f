package api

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/go-chi/render"

	f1sustain "github.com/lucasjlepore/f1-sustainability"
	"github.com/lucasjlepore/f1-sustainability/lapdata"
)

// APIError is the JSON body of every non-2xx response.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// NewError creates an APIError.
func NewError(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

// NewErrorWithDetails creates an APIError carrying extra detail.
func NewErrorWithDetails(statusCode int, errorCode, message string, details any) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message, Details: details}
}

// Error codes returned by the API.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidRaceName = "INVALID_RACE_NAME"
	CodeInvalidQuery    = "INVALID_PARAMETER"
	CodeRaceNotFound    = "RACE_NOT_FOUND"
	CodeDriverNotFound  = "DRIVER_NOT_FOUND"
	CodeTooFewDrivers   = "TOO_FEW_DRIVERS"
	CodeInvalidLapData  = "INVALID_LAP_DATA"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// ValidationError names one rejected request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func errInvalidRaceName(name string) *APIError {
	return NewErrorWithDetails(http.StatusBadRequest, CodeInvalidRaceName, "invalid race name", ValidationError{
		Field:   "race",
		Message: fmt.Sprintf("%q must be a file base name of letters, digits, spaces, '_', '-' or '.'", name),
	})
}

func errInvalidQuery(field, message string) *APIError {
	return NewErrorWithDetails(http.StatusBadRequest, CodeInvalidQuery, "invalid query parameter", ValidationError{
		Field:   field,
		Message: message,
	})
}

// errorFromDomain maps loader and scoring errors to API errors.
func errorFromDomain(err error) *APIError {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NewError(http.StatusNotFound, CodeRaceNotFound, "race not found")
	case errors.Is(err, f1sustain.ErrDriverNotFound):
		return NewErrorWithDetails(http.StatusNotFound, CodeDriverNotFound, "driver not found", err.Error())
	case errors.Is(err, f1sustain.ErrTooFewDrivers):
		return NewErrorWithDetails(http.StatusUnprocessableEntity, CodeTooFewDrivers, "race needs at least two drivers to compare", err.Error())
	case errors.Is(err, lapdata.ErrMissingColumn),
		errors.Is(err, lapdata.ErrInvalidRow),
		errors.Is(err, lapdata.ErrUnsupportedFormat),
		errors.Is(err, f1sustain.ErrEmptyDataset),
		errors.Is(err, f1sustain.ErrDuplicateLap):
		return NewErrorWithDetails(http.StatusUnprocessableEntity, CodeInvalidLapData, "race lap data is invalid", err.Error())
	default:
		return NewError(http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}
