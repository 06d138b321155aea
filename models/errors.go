package models

import "fmt"

// ProjectManagementError is the single error kind surfaced by this plugin. It
// covers missing required fields, unresolved references, duplicate active
// assignments, invalid date ordering and not-found lookups alike; callers
// decide retry or abort policy.
type ProjectManagementError struct {
	Message string
	Err     error
}

func (e *ProjectManagementError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProjectManagementError) Unwrap() error {
	return e.Err
}

// NewError creates a domain error with the given message.
func NewError(format string, args ...interface{}) *ProjectManagementError {
	return &ProjectManagementError{Message: fmt.Sprintf(format, args...)}
}

// WrapError creates a domain error carrying an underlying cause.
func WrapError(message string, err error) *ProjectManagementError {
	return &ProjectManagementError{Message: message, Err: err}
}
