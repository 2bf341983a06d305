package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel kinds; the API maps each one to a status code
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotInCollection    = errors.New("not in collection")
	ErrSelfSubscription   = errors.New("you cannot subscribe to yourself")
	ErrEmptyCart          = errors.New("your shopping cart is empty")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("conflict")
)

// clientError carries a client-facing message for one of the sentinels
type clientError struct {
	kind error
	msg  string
}

func (e *clientError) Error() string { return e.msg }
func (e *clientError) Unwrap() error { return e.kind }

func newClientError(kind error, format string, args ...interface{}) error {
	return &clientError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// ValidationError maps request fields to the problems found with them
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add records msg against field
func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// OrNil returns e when it holds at least one problem
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
