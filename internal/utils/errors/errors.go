package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinels an AppError wraps when no cause is given, so callers can match
// on the class of failure with errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalid      = errors.New("invalid request")
	ErrRefused      = errors.New("operation refused")
	ErrUnavailable  = errors.New("service unavailable")
	ErrTimeout      = errors.New("timeout")
)

// AppError is an error ready to be written to an HTTP client.
type AppError struct {
	Code       string `json:"code"`
	Kind       string `json:"kind,omitempty"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the code, the machine-readable kind and a message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// ToResponse converts an AppError to ErrorResponse.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: e.Code, Kind: e.Kind, Message: e.Message}}
}

func newError(status int, code, kind, message string, cause error) *AppError {
	return &AppError{Code: code, Kind: kind, Message: message, StatusCode: status, Err: cause}
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

// NotFound reports a missing resource by name, e.g. "posting not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, "NOT_FOUND", "not_found", resource+" not found", ErrNotFound)
}

func Unauthorized(message string) *AppError {
	return newError(http.StatusUnauthorized, "UNAUTHORIZED", "", orDefault(message, "authentication required"), ErrUnauthorized)
}

// Forbidden reports an authenticated caller acting outside their rights.
// kind may be empty.
func Forbidden(kind, message string) *AppError {
	return newError(http.StatusForbidden, "FORBIDDEN", kind, orDefault(message, "access denied"), ErrForbidden)
}

// BadRequest reports a malformed path or query parameter.
func BadRequest(message string) *AppError {
	return newError(http.StatusBadRequest, "BAD_REQUEST", "", message, ErrInvalid)
}

// ValidationError reports a request body that breaks an input rule.
func ValidationError(message string) *AppError {
	return newError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid_request", message, ErrInvalid)
}

// Refused reports a business-rule refusal. The code is the upper-cased kind.
func Refused(kind string, statusCode int, message string) *AppError {
	return newError(statusCode, strings.ToUpper(kind), kind, message, ErrRefused)
}

// Conflict reports a request that clashes with work already in progress.
func Conflict(message string) *AppError {
	return Refused("conflict", http.StatusConflict, message)
}

func Unavailable(message string) *AppError {
	return newError(http.StatusServiceUnavailable, "UNAVAILABLE", "", orDefault(message, "service unavailable"), ErrUnavailable)
}

func Timeout(message string) *AppError {
	return newError(http.StatusGatewayTimeout, "TIMEOUT", "timeout", orDefault(message, "request timeout"), ErrTimeout)
}

// Internal hides cause from the client but keeps it for logging.
func Internal(message string, cause error) *AppError {
	return newError(http.StatusInternalServerError, "INTERNAL_ERROR", "internal", message, cause)
}
