package scheduling

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a scheduling failure so the HTTP layer can pick a status code.
type ErrorKind string

const (
	// Validation kinds (400).
	KindMissingField       ErrorKind = "missing_field"
	KindInvalidFormat      ErrorKind = "invalid_format"
	KindInvalidRange       ErrorKind = "invalid_range"
	KindInvalidStatus      ErrorKind = "invalid_status"
	KindInvalidTransition  ErrorKind = "invalid_transition"
	KindInvalidParticipant ErrorKind = "invalid_participant"

	KindUnauthorized ErrorKind = "unauthorized"
	KindNotFound     ErrorKind = "not_found"
	KindForbidden    ErrorKind = "forbidden"
	KindConflict     ErrorKind = "conflict"
	KindInternal     ErrorKind = "internal"
)

// Error is the error type returned by the scheduling and directory services.
type Error struct {
	Kind    ErrorKind
	Field   string // set for KindInvalidFormat and KindMissingField
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsValidation reports whether the kind maps to a 400 response.
func (k ErrorKind) IsValidation() bool {
	switch k {
	case KindMissingField, KindInvalidFormat, KindInvalidRange,
		KindInvalidStatus, KindInvalidTransition, KindInvalidParticipant:
		return true
	}
	return false
}

// KindOf extracts the kind of err, or KindInternal for foreign errors.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// MissingField is returned when a required appointment field is absent.
func MissingField(field string) *Error {
	return &Error{
		Kind:    KindMissingField,
		Field:   field,
		Message: "Incomplete data. Patient, professional, date, start time and end time are required",
	}
}

// InvalidFormat reports a date or time that does not match its pattern.
func InvalidFormat(field string) *Error {
	msg := "Invalid time format. Use HH:MM (24h)"
	if field == "date" {
		msg = "Invalid date format. Use YYYY-MM-DD"
	}
	return &Error{Kind: KindInvalidFormat, Field: field, Message: msg}
}

// InvalidRange reports startTime >= endTime.
func InvalidRange() *Error {
	return &Error{Kind: KindInvalidRange, Message: "Start time must be before end time"}
}

// InvalidStatus reports a status outside the four known values.
func InvalidStatus() *Error {
	return &Error{Kind: KindInvalidStatus, Message: "Invalid status value"}
}

// InvalidTransition reports a status change the lifecycle forbids.
func InvalidTransition(from, to string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("Cannot change appointment status from %s to %s", from, to),
	}
}

// InvalidParticipant reports a referenced user holding the wrong role.
func InvalidParticipant(msg string) *Error {
	return &Error{Kind: KindInvalidParticipant, Message: msg}
}

// NotFound reports a missing entity by name.
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

// Unauthorized reports failed credentials.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Forbidden reports an operation the caller may not perform.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// Conflict reports a concurrent write that invalidated the caller's read.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Internal wraps a storage or unexpected failure.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}
