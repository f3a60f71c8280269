package model

import "fmt"

// ErrorSource tells where the remote service reported a failure
type ErrorSource string

const (
	SourceHeader ErrorSource = "header"
	SourceBody   ErrorSource = "body"
)

// ValidationError represents malformed caller input, detected before any
// request leaves the process
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}

// TransportError represents a non-2xx status or a network failure
type TransportError struct {
	StatusCode int
	Status     string
	Cause      error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transport failed: %v", e.Cause)
	}
	return fmt.Sprintf("transport failed: %d %s", e.StatusCode, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// NewTransportError creates a new transport error
func NewTransportError(statusCode int, status string, cause error) *TransportError {
	return &TransportError{
		StatusCode: statusCode,
		Status:     status,
		Cause:      cause,
	}
}

// ServiceError represents a failure reported by the remote service,
// either in response headers or in a structured reply
type ServiceError struct {
	Code    string
	Message string
	Source  ErrorSource
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error %s: %s", e.Code, e.Message)
}

// NewServiceError creates a new service error
func NewServiceError(code, message string, source ErrorSource) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Source:  source,
	}
}

// ResponseError represents a reply that could not be read at all
type ResponseError struct {
	Operation string
	Field     string
	Message   string
	Cause     error
}

func (e *ResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Operation, e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Operation, e.Field, e.Message)
}

func (e *ResponseError) Unwrap() error {
	return e.Cause
}

// NewResponseError creates a new response error
func NewResponseError(operation, field, message string, cause error) *ResponseError {
	return &ResponseError{
		Operation: operation,
		Field:     field,
		Message:   message,
		Cause:     cause,
	}
}
