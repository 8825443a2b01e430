package core

import (
	"fmt"
	"strconv"
)

// ValidationError reports malformed or out-of-range operator input.
// It is always raised before any persistence call, so stored state is never
// touched when one is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced entity that does not exist. Ref is the
// identifier the caller used (numeric id or passport serial) and may be empty.
type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	if e.Ref == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.Ref)
}

func notFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, Ref: strconv.FormatInt(id, 10)}
}

// DuplicateError reports a uniqueness violation detected before insert,
// e.g. registering a second client with an existing passport serial.
type DuplicateError struct {
	Entity string
	Field  string
	Value  string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}
