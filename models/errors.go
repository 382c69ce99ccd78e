package models

import (
	"sort"
	"strings"
)

// Field-level messages.
const (
	MsgBlank   = "Can't be blank."
	MsgInvalid = "is invalid"
	MsgTaken   = "Is already taken."
)

// ValidationError collects field-keyed messages. It is rendered as a 422 envelope.
type ValidationError struct {
	Message string
	Errors  map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Message: "Invalid data", Errors: map[string]string{}}
}

// FieldError builds a ValidationError holding a single field message.
func FieldError(field, msg string) *ValidationError {
	e := NewValidationError()
	e.Add(field, msg)
	return e
}

// Add records msg for field unless the field already has a message.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Errors[field]; ok {
		return
	}
	e.Errors[field] = msg
}

// Merge copies messages from other that are not yet present.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, msg := range other.Errors {
		e.Add(field, msg)
	}
}

func (e *ValidationError) Empty() bool {
	return len(e.Errors) == 0
}

// OrNil returns nil when no field failed so callers can `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if e == nil || e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field, msg := range e.Errors {
		fields = append(fields, field+": "+msg)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}
