package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrEmailRegistered is returned when registering an email that already exists.
	ErrEmailRegistered = errors.New("Email already registered")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// The same value covers unknown users and SSO-only accounts so callers
	// cannot tell the sub-reasons apart.
	ErrInvalidCredentials = errors.New("Incorrect username or password")
	// ErrSSOFailed is the single client-facing error for every SSO failure
	// mode (bad state, provider unreachable, invalid code, missing claims).
	ErrSSOFailed = errors.New("Google SSO failed.")
	// ErrUnauthorized is the uniform rejection of the authorization gate.
	ErrUnauthorized = errors.New("Invalid authentication credentials")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognized is
// a dependency or programming failure and collapses to a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrEmailRegistered):
		return NewHTTPError(http.StatusBadRequest, ErrEmailRegistered.Error(), "EMAIL_REGISTERED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrSSOFailed):
		return NewHTTPError(http.StatusBadRequest, ErrSSOFailed.Error(), "SSO_FAILED")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error(), "UNAUTHORIZED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
