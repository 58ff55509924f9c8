// Package errors provides custom error types for the shopsync system.
// These errors enable programmatic error checking across the reconciliation
// core, so the apply engine can distinguish idempotency conflicts from real
// failures without inspecting gateway error text itself.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// As is an alias for the standard library errors.As.
var As = errors.As

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// Unwrap is an alias for the standard library errors.Unwrap.
var Unwrap = errors.Unwrap

// Common sentinel errors for the shopsync system.
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that the target state already exists remotely
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAuthFailed indicates that the gateway rejected our credentials
	ErrAuthFailed = errors.New("authentication failed")

	// ErrGatewayUnavailable indicates that the gateway cannot be reached
	ErrGatewayUnavailable = errors.New("gateway unavailable")
)

// NotFoundError represents an error when a resource is not found.
type NotFoundError struct {
	Resource string
	Key      string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ResolutionError represents a failure to resolve an entity, variant, or
// channel identifier for a row. It is fatal to the affected row only.
type ResolutionError struct {
	Resource   string // "entity", "variant", "channel"
	EntityKey  string
	VariantKey string
	ChannelKey string
	Err        error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	id := e.EntityKey
	if e.VariantKey != "" {
		id = e.VariantKey
	}
	if e.ChannelKey != "" {
		return fmt.Sprintf("cannot resolve %s for %s (channel %s)", e.Resource, id, e.ChannelKey)
	}
	return fmt.Sprintf("cannot resolve %s for %s", e.Resource, id)
}

// Unwrap implements errors.Unwrap.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError indicates a mutation was rejected because the target state
// already exists remotely. The apply engine treats it as success.
//
// Detection today relies on the gateway adapter matching natural-language
// error text; this type is the boundary that keeps that heuristic out of the
// core. A structured conflict code from the service should replace it.
type ConflictError struct {
	Operation string
	Message   string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Operation, e.Message)
}

// Is implements errors.Is support.
func (e *ConflictError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// GatewayError represents an error returned by the remote catalog gateway.
type GatewayError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway error during %s (status %d): %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gateway error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *GatewayError) Is(target error) bool {
	if e.StatusCode >= 500 {
		return target == ErrGatewayUnavailable
	}
	return false
}

// AuthenticationError represents a failure to authenticate to the gateway.
// It is fatal to the whole run.
type AuthenticationError struct {
	Endpoint string
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("authentication error for %s: %s", e.Endpoint, e.Message)
	}
	return fmt.Sprintf("authentication error: %s", e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthFailed
}

// ParseError represents an error when parsing data formats.
type ParseError struct {
	Format  string // "csv", "json", "yaml"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s file %s line %d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents an error during I/O operations.
type IOError struct {
	Operation string // "read", "write", "create", "remove"
	Path      string
	Err       error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *IOError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is an idempotency conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAuth checks if an error is an authentication error.
func IsAuth(err error) bool {
	return errors.Is(err, ErrAuthFailed)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapParse wraps an error as a ParseError.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}

// WrapGateway wraps an error as a GatewayError.
func WrapGateway(operation string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &GatewayError{
		Operation:  operation,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
