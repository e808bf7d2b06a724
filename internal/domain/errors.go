package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidDueDate   = errors.New("invalid due date (expected YYYY-MM-DD)")
	ErrInvalidColor     = errors.New("invalid color (expected #RRGGBB)")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrNotConfirmed     = errors.New("not confirmed")
	ErrNotLoggedIn      = errors.New("not logged in (run 'taskflow login' first)")
	ErrConfigExists     = errors.New("config file already exists")
	ErrDuplicateID      = errors.New("server returned an id already in the collection")
	ErrDetached         = errors.New("task collection is closed")
	ErrUnavailable      = errors.New("api temporarily unavailable")

	// Error kinds. Typed errors below unwrap to one of these.
	ErrAuth       = errors.New("authentication failed")
	ErrValidation = errors.New("validation failed")
	ErrFetch      = errors.New("fetch failed")
	ErrMutation   = errors.New("mutation failed")
)

// APIError is a non-2xx response from the TaskFlow API.
type APIError struct {
	Cause  error  // Sentinel matched by the status code (may be nil)
	Detail string // Human-readable detail from the response body
	Status int    // HTTP status code
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("api returned status %d", e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// AuthError is returned when credentials are rejected.
type AuthError struct {
	Err    error
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ErrAuth.Error()
}

func (e *AuthError) Unwrap() []error {
	return causes(ErrAuth, e.Err)
}

// ValidationError is returned when input is rejected before any network call.
type ValidationError struct {
	Err     error  // Underlying sentinel (e.g. ErrEmptyTitle), may be nil
	Field   string // JSON field name
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() []error {
	return causes(ErrValidation, e.Err)
}

// FetchError is returned when reading from the API fails.
// The caller's previous state is left intact.
type FetchError struct {
	Err      error
	Resource string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return causes(ErrFetch, e.Err)
}

// MutationError is returned when a create, update or delete fails.
type MutationError struct {
	Err    error
	Op     string // "create", "update", "delete"
	TaskID string // Empty for create
}

func (e *MutationError) Error() string {
	if e.TaskID == "" {
		return fmt.Sprintf("%s task: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s task %s: %v", e.Op, e.TaskID, e.Err)
}

func (e *MutationError) Unwrap() []error {
	return causes(ErrMutation, e.Err)
}

// causes lists the error kind followed by a non-nil cause.
func causes(kind, err error) []error {
	if err == nil {
		return []error{kind}
	}
	return []error{kind, err}
}

// UserMessage returns the text to show a user for err, falling back to
// fallback when err carries no API detail.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Detail != "" {
		return authErr.Detail
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Error()
	}
	return fallback
}
