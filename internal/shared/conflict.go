package shared

import (
	"fmt"
	"sort"
	"strings"
)

// ConflictError reports a uniqueness collision, keyed by the offending fields.
// It unwraps to ErrConflict so callers can branch on the sentinel.
type ConflictError struct {
	Fields map[string]string
}

func (e *ConflictError) Error() string {
	if len(e.Fields) == 0 {
		return "conflict"
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return "conflict: " + strings.Join(parts, "; ")
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewConflict builds a ConflictError for a single field.
func NewConflict(field, message string) *ConflictError {
	return &ConflictError{Fields: map[string]string{field: message}}
}
