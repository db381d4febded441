package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so the HTTP boundary can map it to a status code
// and a stable machine-readable error code without inspecting error text.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindInvalidCredentials
	KindInvalidToken
	KindUpstream
	KindUpstreamUnavailable
)

type Error struct {
	Kind    Kind
	Message string

	// Status overrides the default HTTP status for the kind. Used by
	// KindUpstream to propagate the downstream status code.
	Status int

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is match on kind, so callers can compare against the
// sentinel-style constructors without caring about the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: "Invalid email or password"}
}

func InvalidToken(message string) *Error {
	return &Error{Kind: KindInvalidToken, Message: message}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// Upstream wraps an error status returned by a downstream service.
func Upstream(status int, message string) *Error {
	return &Error{Kind: KindUpstream, Message: message, Status: status}
}

// UpstreamUnavailable marks a transport-level downstream failure. Timeouts
// surface as 504, everything else (connection refused, DNS) as 503.
func UpstreamUnavailable(err error, timeout bool) *Error {
	status := http.StatusServiceUnavailable
	message := "Upstream service unavailable"
	if timeout {
		status = http.StatusGatewayTimeout
		message = "Upstream service timed out"
	}
	return &Error{Kind: KindUpstreamUnavailable, Message: message, Status: status, Err: err}
}

// HTTPStatus maps an error to the status code the client should see.
// Unknown errors collapse to 500.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}

	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidCredentials, KindInvalidToken:
		return http.StatusUnauthorized
	case KindUpstream, KindUpstreamUnavailable:
		if e.Status != 0 {
			return e.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the stable error code for the client-facing envelope.
func Code(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "INTERNAL_ERROR"
	}

	switch e.Kind {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidCredentials:
		return "INVALID_CREDENTIALS"
	case KindInvalidToken:
		return "INVALID_TOKEN"
	case KindUpstream:
		return "UPSTREAM_ERROR"
	case KindUpstreamUnavailable:
		return "UPSTREAM_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}

// ClientMessage returns the message safe to echo to the client. Internal
// errors never expose their cause.
func ClientMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return "Internal server error"
	}
	return e.Message
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
