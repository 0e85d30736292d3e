package common

import (
	"fmt"
	"os"
	"strings"
)

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// Validator provides validation utilities
type Validator struct {
	errors []ValidationError
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		errors: make([]ValidationError, 0),
	}
}

// Field validates a field and collects errors
func (v *Validator) Field(fieldName string, value interface{}, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if err := rule(fieldName, value); err != nil {
			v.errors = append(v.errors, *err)
			// later rules usually assume earlier ones passed
			break
		}
	}
	return v
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// ErrorMessage returns a combined error message as string
func (v *Validator) ErrorMessage() string {
	if !v.HasErrors() {
		return ""
	}

	var messages []string
	for _, err := range v.errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// ValidationRule represents a single validation rule
type ValidationRule func(fieldName string, value interface{}) *ValidationError

// Required - Common validation rules
func Required(fieldName string, value interface{}) *ValidationError {
	if value == nil {
		return &ValidationError{Field: fieldName, Value: value, Message: "is required"}
	}

	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return &ValidationError{Field: fieldName, Value: value, Message: "is required"}
	}
	return nil
}

// Positive requires an int or float64 greater than zero.
func Positive(fieldName string, value interface{}) *ValidationError {
	switch n := value.(type) {
	case int:
		if n > 0 {
			return nil
		}
	case float64:
		if n > 0 {
			return nil
		}
	default:
		return &ValidationError{Field: fieldName, Value: value, Message: "must be a number"}
	}
	return &ValidationError{Field: fieldName, Value: value, Message: "must be greater than zero"}
}

// OneOf requires a string from allowed.
func OneOf(allowed ...string) ValidationRule {
	return func(fieldName string, value interface{}) *ValidationError {
		s, _ := value.(string)
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return &ValidationError{
			Field:   fieldName,
			Value:   value,
			Message: "must be one of " + strings.Join(allowed, ", "),
		}
	}
}

// FileExists requires a path to an existing regular file.
func FileExists(fieldName string, value interface{}) *ValidationError {
	path, _ := value.(string)
	st, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Field: fieldName, Value: value, Message: "file not found"}
	}
	if st.IsDir() {
		return &ValidationError{Field: fieldName, Value: value, Message: "is a directory"}
	}
	return nil
}
