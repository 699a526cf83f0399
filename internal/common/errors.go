// Package common defines sentinel errors and small helpers shared by the
// archive services, repositories and front-ends. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Identity errors raised at the mutation boundary.
	ErrDuplicateID       = errors.New("duplicate id")
	ErrDuplicateUsername = errors.New("duplicate username")

	// Access errors.
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrProtectedUser = errors.New("user is protected from deletion")

	// Input errors.
	ErrValidation = errors.New("validation error")
)
