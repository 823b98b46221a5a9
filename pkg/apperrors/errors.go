package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

// DuplicateRoleError means the person already holds the role on the case.
type DuplicateRoleError struct {
	CaseID   uuid.UUID
	PersonID uuid.UUID
	Role     string
}

func (e *DuplicateRoleError) Error() string {
	return fmt.Sprintf("person %s already has role %q on case %s", e.PersonID, e.Role, e.CaseID)
}

// InvalidRepresentationError means a represents_person_id does not point to a
// participant one level up the hierarchy on the same case.
type InvalidRepresentationError struct {
	Role               string
	RepresentsPersonID uuid.UUID
	Reason             string
}

func (e *InvalidRepresentationError) Error() string {
	return fmt.Sprintf("%s cannot represent person %s: %s", e.Role, e.RepresentsPersonID, e.Reason)
}

// ValidationError carries per-field messages in the same shape the HTTP layer
// renders (field -> messages).
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a message for field and returns e for chaining.
func (e *ValidationError) Add(field, msg string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

// Empty reports whether no field has a message.
func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

// Validation builds a single-field ValidationError.
func Validation(field, msg string) error {
	return (&ValidationError{}).Add(field, msg)
}

// FromFields wraps a validator result; nil or empty maps yield nil.
func FromFields(fields map[string][]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// PersistenceError is a storage failure surfaced as-is to the caller.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// Persist wraps err as a PersistenceError unless it is nil or already one of
// the domain errors above.
func Persist(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsDomain reports whether err is already classified.
func IsDomain(err error) bool {
	var (
		dup *DuplicateRoleError
		rep *InvalidRepresentationError
		val *ValidationError
		per *PersistenceError
	)
	return errors.Is(err, ErrNotFound) ||
		errors.As(err, &dup) ||
		errors.As(err, &rep) ||
		errors.As(err, &val) ||
		errors.As(err, &per)
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
