package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrFailedValidation       = errors.New("failed validation")
	ErrRecordNotFound         = errors.New("record not found")
	ErrEditConflict           = errors.New("edit conflict")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUnsupportedMediaType   = errors.New("unsupported media type")
	ErrContentTooLarge        = errors.New("content too large")
	ErrBadRequest             = errors.New("bad request")
	ErrDuplicateRecord        = errors.New("duplicate record")
	ErrNotPermitted           = errors.New("not permitted")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrTooManyImages          = errors.New("too many images")
	ErrUpstreamUnavailable    = errors.New("upstream unavailable")

	ErrAlreadyRequested  = errors.New("already requested")
	ErrOwnBook           = errors.New("cannot request own book")
	ErrBookUnavailable   = errors.New("book is not available for requests")
	ErrRequestNotFound   = errors.New("Request not found")
	ErrNoRequestToCancel = errors.New("no booking request found to cancel")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError carries the per-field messages of a failed validation.
// It matches ErrFailedValidation with errors.Is.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%q %s", k, e.Errors[k]))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrFailedValidation
}

// failedValidation wraps a validator's error map.
func failedValidation(errorMap map[string]string) error {
	return &ValidationError{Errors: errorMap}
}

// failedField builds a validation error for a single field.
func failedField(key, message string) error {
	return failedValidation(map[string]string{key: message})
}
