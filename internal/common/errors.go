package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error classes. ErrConfiguration aborts before processing; the others are
// recorded against a slide/page and processing continues.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrPerItem       = errors.New("item extraction failed")
	ErrRemoteService = errors.New("remote service error")
	ErrNoContent     = errors.New("no content extracted")
)

// Error codes carried in AppError.Code.
const (
	CodeConfig    = "CONFIG_ERROR"
	CodeItem      = "ITEM_ERROR"
	CodeRemote    = "REMOTE_ERROR"
	CodeNoContent = "NO_CONTENT"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError wraps cause (may be nil) as a fatal configuration error.
func NewConfigError(message string, cause error) error {
	return NewAppError(CodeConfig, message, joinCause(ErrConfiguration, cause))
}

// NewItemError marks a failure scoped to one slide, page, table or image.
func NewItemError(message string, cause error) error {
	return NewAppError(CodeItem, message, joinCause(ErrPerItem, cause))
}

// NewRemoteError marks a failed call to the LLM service.
func NewRemoteError(message string, cause error) error {
	return NewAppError(CodeRemote, message, joinCause(ErrRemoteService, cause))
}

// IsConfigError reports whether err is (or wraps) a configuration error.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func joinCause(class, cause error) error {
	if cause == nil {
		return class
	}
	return fmt.Errorf("%w: %w", class, cause)
}
