package service

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("token_not_valid")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrConflict           = errors.New("conflict")
)

// ValidationError lists rejected input fields with a human readable reason
// for each. Keys are the JSON field names.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

// ConflictError reports a unique field that is already taken. It matches
// ErrConflict under errors.Is.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return "user already exists"
	}
	return fmt.Sprintf("user with this %s already exists", e.Field)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
