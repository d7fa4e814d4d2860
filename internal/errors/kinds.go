package errors

import (
	stderrors "errors"
	"fmt"
)

// ValidationError reports a caller contract violation such as a malformed
// time string, an unknown weekday or an invalid adherence action.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validationf builds a ValidationError for field.
func Validationf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a reference to an unknown resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// CapabilityUnavailableError reports that the alert capability could not
// complete an operation (permission denied, store or transport failure).
type CapabilityUnavailableError struct {
	Op  string
	Err error
}

func (e *CapabilityUnavailableError) Error() string {
	return fmt.Sprintf("alert capability unavailable during %s: %v", e.Op, e.Err)
}

func (e *CapabilityUnavailableError) Unwrap() error {
	return e.Err
}

// CapabilityUnavailable wraps err unless it already is a CapabilityUnavailableError.
func CapabilityUnavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var capErr *CapabilityUnavailableError
	if stderrors.As(err, &capErr) {
		return err
	}
	return &CapabilityUnavailableError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return stderrors.As(err, &target)
}

func IsCapabilityUnavailable(err error) bool {
	var target *CapabilityUnavailableError
	return stderrors.As(err, &target)
}
