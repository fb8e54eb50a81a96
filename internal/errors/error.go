package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryReactive  Category = "reactive"
	CategoryReconcile Category = "reconcile"
	CategoryConfig    Category = "config"
	CategoryExport    Category = "export"
	CategoryCLI       Category = "cli"
)

// ReflowError is a structured error with a registered code.
type ReflowError struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ReflowError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ReflowError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target carries the same code. Errors without a code
// only match themselves.
func (e *ReflowError) Is(target error) bool {
	t, ok := target.(*ReflowError)
	if !ok {
		return false
	}
	if e.Code == "" || t.Code == "" {
		return e == t
	}
	return e.Code == t.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ReflowError) WithSuggestion(s string) *ReflowError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation of the error.
func (e *ReflowError) WithDetail(d string) *ReflowError {
	e.Detail = d
	return e
}

// WithDetailf replaces the detailed explanation with a formatted string.
func (e *ReflowError) WithDetailf(format string, args ...any) *ReflowError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *ReflowError) Wrap(err error) *ReflowError {
	e.Wrapped = err
	return e
}

// New creates a ReflowError from a registered error code.
func New(code string) *ReflowError {
	template, ok := registry[code]
	if !ok {
		return &ReflowError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ReflowError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new ReflowError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *ReflowError {
	return &ReflowError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a ReflowError.
func FromError(err error, code string) *ReflowError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*ReflowError); ok {
		return re
	}
	return New(code).Wrap(err)
}
