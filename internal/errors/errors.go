// Package errors provides the application error types and helpers.
package errors

import "net/http"

// APIError represents an error that is reported to the client as JSON.
type APIError struct {
	HTTPStatus int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Predefined errors
var (
	ErrBadRequest          = &APIError{HTTPStatus: http.StatusBadRequest, Code: "BAD_REQUEST", Message: "Invalid request parameters"}
	ErrClientBodyRead      = &APIError{HTTPStatus: http.StatusBadRequest, Code: "CLIENT_BODY_READ_ERROR", Message: "Failed to read request body"}
	ErrInternalServer      = &APIError{HTTPStatus: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: "Internal server error"}
	ErrBadGateway          = &APIError{HTTPStatus: http.StatusBadGateway, Code: "BAD_GATEWAY", Message: "Upstream service error"}
	ErrUpstreamUnreachable = &APIError{HTTPStatus: http.StatusBadGateway, Code: "UPSTREAM_UNREACHABLE", Message: "Failed to reach upstream server"}
	ErrUpstreamBodyRead    = &APIError{HTTPStatus: http.StatusBadGateway, Code: "UPSTREAM_BODY_READ_ERROR", Message: "Failed to read upstream response body"}
)

// NewAPIError creates a new APIError based on a predefined error with a custom message.
func NewAPIError(base *APIError, message string) *APIError {
	return &APIError{
		HTTPStatus: base.HTTPStatus,
		Code:       base.Code,
		Message:    message,
	}
}
