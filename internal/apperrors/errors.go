// Package apperrors defines the coded error type shared by the repository,
// service, and handler layers, and its mapping onto HTTP status codes.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/swiftbill/be-invoicing/internal/billing"
)

// Code classifies an error for transport mapping and logging.
type Code string

const (
	CodeValidation Code = "validation_error"
	CodeNotFound   Code = "not_found"
	CodeConflict   Code = "conflict"
	CodeInternal   Code = "internal_error"
)

// Error is a coded application error.
type Error struct {
	Code    Code
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// NotFound reports a missing resource.
func NotFound(resource, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// InvalidInput reports a user-correctable input problem on a named field.
func InvalidInput(field, message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Field: field}
}

// Conflict reports an operation that is invalid in the current state.
func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// HTTPStatus maps an error to the response status code. Assembly validation
// errors from the billing core map to 400 alongside coded validation errors.
func HTTPStatus(err error) int {
	var verr *billing.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}

	var aerr *Error
	if errors.As(err, &aerr) {
		switch aerr.Code {
		case CodeValidation:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodeConflict:
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}
