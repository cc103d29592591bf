package ghclient

import (
	"errors"
	"fmt"
)

// Predefined error types for tracker operations
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrNotAssignable  = errors.New("login is not assignable in this repository")
)

// ClientError represents a tracker API error with context
type ClientError struct {
	Op       string // Operation that failed
	Resource string // Resource identifier (issue number, comment id, ...)
	Err      error  // Underlying error
}

func (e *ClientError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("github %s failed for %s: %v", e.Op, e.Resource, e.Err)
	}
	return fmt.Sprintf("github %s failed: %v", e.Op, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewClientError creates a new ClientError
func NewClientError(op, resource string, err error) *ClientError {
	return &ClientError{
		Op:       op,
		Resource: resource,
		Err:      err,
	}
}

// NotAssignableError creates an error for a login that failed the assignee check
func NotAssignableError(login string) error {
	return NewClientError("check_assignable", login, ErrNotAssignable)
}
