// Package apperr defines the error taxonomy shared by the validation layer
// and the HTTP handlers. Every error type knows its HTTP status code, so
// handlers never switch on messages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError is returned when a request body fails field validation.
// Message lists every violated field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// StatusCode returns the HTTP status code for this error.
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// BadRequestError is returned for malformed requests that never reach
// validation: non-integer ids, empty or unparsable bodies.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string { return e.Message }

// StatusCode returns the HTTP status code for this error.
func (e *BadRequestError) StatusCode() int { return http.StatusBadRequest }

// NotFoundError is returned when the referenced record does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// ConflictError is returned when a secondary key (roll number or email)
// is already held by a different record.
type ConflictError struct {
	Field   string
	Value   string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// StatusCode returns the HTTP status code for this error.
func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// InternalError wraps an unexpected fault. Message is safe to show to the
// caller; Err is only logged.
type InternalError struct {
	Message string
	Err     error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status code for this error.
func (e *InternalError) StatusCode() int { return http.StatusInternalServerError }

type statusCoder interface {
	StatusCode() int
}

// StatusCode classifies err. Anything outside the taxonomy is a 500.
func StatusCode(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message that may be sent to the client.
// Errors outside the taxonomy get fallback so internals do not leak.
func PublicMessage(err error, fallback string) string {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.Message
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		if s, ok := sc.(error); ok {
			return s.Error()
		}
	}
	return fallback
}
