package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors.
var (
	// ErrNoConnection is returned without sending when the backend is not
	// reachable.
	ErrNoConnection = errors.New("no internet connection, check your network settings")

	// ErrUnauthorized matches every AuthError.
	ErrUnauthorized = errors.New("unauthorized")
)

// fallbackMessage is used when an error response carries no message.
const fallbackMessage = "An unexpected error occurred"

// NetworkError is a transport failure: the backend was unreachable, the
// request timed out or the connection dropped. Session state is never
// changed because of one.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	if errors.Is(e.Err, ErrNoConnection) {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: network error, check your connection and try again: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError is a rejected credential: wrong password, expired token or a
// mismatched OTP. It matches ErrUnauthorized.
type AuthError struct {
	Op      string
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Is reports whether target is ErrUnauthorized.
func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

// Permanent marks the error as not worth retrying.
func (e *AuthError) Permanent() bool { return true }

// APIError is any other non-2xx response.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
}

// Permanent reports whether retrying cannot help. Client errors other than
// 408 and 429 are permanent.
func (e *APIError) Permanent() bool {
	switch e.Status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return e.Status >= 400 && e.Status < 500
}

// Message returns the human-readable part of err: the server's message for
// API and auth errors, the error text otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Message
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, ErrNoConnection) {
		return "No internet connection. Please check your network settings."
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return "Network error. Please check your connection and try again."
	}
	return err.Error()
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// classify maps an error response to AuthError or APIError. Credential
// endpoints answer bad input with 400/422, so those map to AuthError too.
func classify(op string, status int, message string, credential bool) error {
	if message == "" {
		message = fallbackMessage
	}
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return &AuthError{Op: op, Status: status, Message: message}
	case credential && (status == http.StatusBadRequest || status == http.StatusUnprocessableEntity):
		return &AuthError{Op: op, Status: status, Message: message}
	}
	return &APIError{Op: op, Status: status, Message: message}
}
