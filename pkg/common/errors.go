package common

import (
	"fmt"
	"net/http"
)

// AppError is an application error carrying the HTTP status it maps to.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewBadRequestError creates a 400 error
func NewBadRequestError(message string, err error) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: "bad_request", Message: message, Err: err}
}

// NewUnauthorizedError creates a 401 error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: message}
}

// NewForbiddenError creates a 403 error
func NewForbiddenError(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Code: "forbidden", Message: message}
}

// NewNotFoundError creates a 404 error
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: "not_found", Message: message, Err: err}
}

// NewConflictError creates a 409 error
func NewConflictError(message string, err error) *AppError {
	return &AppError{Status: http.StatusConflict, Code: "conflict", Message: message, Err: err}
}

// NewUnprocessableError creates a 422 error
func NewUnprocessableError(message string, err error) *AppError {
	return &AppError{Status: http.StatusUnprocessableEntity, Code: "unprocessable", Message: message, Err: err}
}

// NewInternalError creates a 500 error wrapping a cause
func NewInternalError(message string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Code: "internal", Message: message, Err: err}
}

// NewInternalServerError creates a 500 error without a cause
func NewInternalServerError(message string) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Code: "internal", Message: message}
}
