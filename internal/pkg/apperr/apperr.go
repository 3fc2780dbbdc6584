// Package apperr holds the error kinds shared by every domain package.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

var ErrNotFound = errors.New("not found")

// ValidationError reports malformed or missing input. Fields maps a field name to the
// rule it broke and may be empty.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error: " + e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+e.Fields[k])
	}
	return "validation error: " + e.Message + " (" + strings.Join(parts, ", ") + ")"
}

func Validation(message string) *ValidationError {
	return &ValidationError{Message: message, Fields: map[string]string{}}
}

// With records a broken rule and returns e for chaining.
func (e *ValidationError) With(field, rule string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = rule
	return e
}

// OrNil returns nil when no field was recorded.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
