// Package content holds the rules shared by the catalog collections:
// field validation, multipart upload policy, and attachment staging.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports the fields of a request that failed validation.
type ValidationError struct {
	fields map[string]string
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.fields))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s %s", k, e.fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns a copy of the per-field messages.
func (e *ValidationError) Fields() map[string]string {
	return maps.Clone(e.fields)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validator accumulates field failures. The zero value is ready to use.
type Validator struct {
	fields map[string]string
}

// Require fails field when value is blank after trimming.
func (v *Validator) Require(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "is required")
}

// RequireList fails field when values has no non-blank entry.
func (v *Validator) RequireList(field string, values []string) {
	v.Check(len(CleanList(values)) > 0, field, "requires at least one entry")
}

// Check records message against field when ok is false.
// Only the first failure per field is kept.
func (v *Validator) Check(ok bool, field, message string) {
	if ok {
		return
	}
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
	if _, exists := v.fields[field]; !exists {
		v.fields[field] = message
	}
}

// Valid reports whether no failure has been recorded.
func (v *Validator) Valid() bool {
	return len(v.fields) == 0
}

// Err returns a *ValidationError when failures were recorded, otherwise nil.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return &ValidationError{fields: maps.Clone(v.fields)}
}

// CleanList trims every entry and drops blanks, preserving order.
// The result is never nil.
func CleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, s := range values {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Optional trims s and returns nil when nothing is left.
func Optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ParseList decodes a JSON array of strings submitted as a form field.
// An empty raw value yields an empty list.
func ParseList(field, raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}

	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, NewValidationError(field, "must be a JSON array of strings")
	}
	return CleanList(values), nil
}
