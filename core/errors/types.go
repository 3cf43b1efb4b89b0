// ABOUTME: Custom error types for the reading core
// ABOUTME: Structured errors that handlers map onto HTTP responses

package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents rejected user input. No state is changed.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalAPIError represents an error from the backend or a third-party service
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// StateError reports an operation that is not valid in the current state
type StateError struct {
	Operation string
	State     string
}

// Error implements the error interface
func (e *StateError) Error() string {
	return fmt.Sprintf("%s not allowed in state %s", e.Operation, e.State)
}

// UnsupportedError reports a feature that is unavailable for the session
type UnsupportedError struct {
	Feature string
}

// Error implements the error interface
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s is not supported", e.Feature)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// IsState checks if an error is a StateError
func IsState(err error) bool {
	var stateErr *StateError
	return errors.As(err, &stateErr)
}

// IsUnsupported checks if an error is an UnsupportedError
func IsUnsupported(err error) bool {
	var unsupportedErr *UnsupportedError
	return errors.As(err, &unsupportedErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
