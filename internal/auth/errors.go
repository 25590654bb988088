package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/inventory-service/internal/repository"
)

// Failures returned by the auth core. Callers match them with errors.Is and
// map them onto HTTP status codes; the core itself never decides a status.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMissingAuthHeader  = errors.New("authorization header is missing")
	ErrMissingToken       = errors.New("token is missing")
	ErrForbidden          = errors.New("forbidden")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidRole        = errors.New("invalid role")
	ErrStorage            = errors.New("storage failure")

	// ErrUserNotFound is only surfaced for the target of a role assignment.
	// Login folds a missing user into ErrInvalidCredentials.
	ErrUserNotFound = repository.ErrUserNotFound
)

// ValidationError lists the required fields that were blank.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "The following fields are required: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// storageErr tags err as a store failure while keeping it inspectable.
func storageErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
