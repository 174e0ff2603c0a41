package dto

import (
	"errors"
	"net/http"

	"github.com/clearledger/reconciliation-backend/internal/domain/session"
	"github.com/clearledger/reconciliation-backend/internal/infrastructure/storage"
)

// APIError represents a structured error response.
// All error responses from the API use this format for consistency.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes
const (
	ErrCodeNotFound       = "not_found"
	ErrCodeBadRequest     = "bad_request"
	ErrCodeConflict       = "conflict"
	ErrCodeStateViolation = "state_violation"
	ErrCodeInternalError  = "internal_error"
)

// NewAPIError creates a new APIError with the given code and message.
func NewAPIError(code, message string) APIError {
	return APIError{Code: code, Message: message}
}

// BadRequestError creates a bad request error response.
func BadRequestError(message string) APIError {
	return NewAPIError(ErrCodeBadRequest, message)
}

// InternalError creates an internal server error response.
func InternalError() APIError {
	return NewAPIError(ErrCodeInternalError, "something went wrong on our side. Please try again")
}

// FromDomainError maps domain and storage errors to an HTTP status and an
// APIError. Domain error messages pass through untouched: their supportive
// wording is part of the product.
func FromDomainError(err error) (int, APIError) {
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		return http.StatusNotFound, NewAPIError(ErrCodeNotFound, err.Error())
	case errors.Is(err, session.ErrTransactionNotFound):
		return http.StatusNotFound, NewAPIError(ErrCodeNotFound, err.Error())
	case errors.Is(err, session.ErrAlreadyMatched):
		return http.StatusConflict, NewAPIError(ErrCodeConflict, err.Error())
	case errors.Is(err, session.ErrSessionClosed):
		return http.StatusConflict, NewAPIError(ErrCodeStateViolation, err.Error())
	case errors.Is(err, session.ErrNotCompleted):
		return http.StatusConflict, NewAPIError(ErrCodeStateViolation, err.Error())
	}
	return http.StatusInternalServerError, InternalError()
}
