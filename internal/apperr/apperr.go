// Package apperr defines the typed error taxonomy surfaced by the API.
// Every failure that reaches the HTTP boundary is rendered from one of
// these errors as {"error": message, "code": code}.
package apperr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(message string) *Error {
	return &Error{Status: fiber.StatusBadRequest, Code: "validation_error", Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Status: fiber.StatusUnauthorized, Code: "unauthorized", Message: message}
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "Forbidden"
	}
	return &Error{Status: fiber.StatusForbidden, Code: "forbidden", Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: fiber.StatusNotFound, Code: "not_found", Message: message}
}

func Conflict(message string) *Error {
	return &Error{Status: fiber.StatusConflict, Code: "conflict", Message: message}
}

// Upstream wraps a non-2xx response from the content provider, keeping
// the provider's own status code.
func Upstream(status int, message string) *Error {
	return &Error{Status: status, Code: "upstream_error", Message: message}
}

// UpstreamUnavailable covers transport failures and timeouts talking to
// the provider, distinct from provider-returned 4xx/5xx.
func UpstreamUnavailable(message string, err error) *Error {
	status := fiber.StatusServiceUnavailable
	return &Error{Status: status, Code: "upstream_unavailable", Message: message, Err: err}
}

func UpstreamTimeout(message string, err error) *Error {
	return &Error{Status: fiber.StatusGatewayTimeout, Code: "upstream_unavailable", Message: message, Err: err}
}

// UpstreamParse covers a 2xx provider response whose body is not valid JSON.
func UpstreamParse(err error) *Error {
	return &Error{Status: fiber.StatusBadGateway, Code: "upstream_parse_error", Message: "invalid response from content provider", Err: err}
}

// Configuration signals missing required configuration. Fatal at
// startup in practice; never retried.
func Configuration(message string) *Error {
	return &Error{Status: fiber.StatusInternalServerError, Code: "configuration_error", Message: message}
}

func Internal(message string, err error) *Error {
	if message == "" {
		message = "Internal server error"
	}
	return &Error{Status: fiber.StatusInternalServerError, Code: "internal_error", Message: message, Err: err}
}
