// Package apperr defines the application error taxonomy.
//
// Every error that crosses a service boundary carries a stable,
// machine-readable code so callers can branch on the kind without
// inspecting message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

const (
	KindVaultNotFound Kind = "VAULT_NOT_FOUND"
	KindEntryNotFound Kind = "ENTRY_NOT_FOUND"
	KindFieldNotFound Kind = "FIELD_NOT_FOUND"
	KindValidation    Kind = "VALIDATION_ERROR"
	KindMalformed     Kind = "MALFORMED_INPUT"
	KindPersistence   Kind = "DATABASE_ERROR"
	KindInternal      Kind = "INTERNAL_ERROR"
)

// Error is a classified application error. Persistence errors wrap the
// underlying driver error; the cause is preserved for logs but callers only
// need Kind for correct behavior.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches errors by kind, so sentinel comparisons like
// errors.Is(err, apperr.VaultNotFound(0)) work regardless of the id.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// VaultNotFound reports a missing vault.
func VaultNotFound(id int64) *Error {
	return &Error{Kind: KindVaultNotFound, Message: fmt.Sprintf("Vault not found: %d", id)}
}

// EntryNotFound reports a missing entry.
func EntryNotFound(id int64) *Error {
	return &Error{Kind: KindEntryNotFound, Message: fmt.Sprintf("Entry not found: %d", id)}
}

// FieldNotFound reports a missing field definition.
func FieldNotFound(id int64) *Error {
	return &Error{Kind: KindFieldNotFound, Message: fmt.Sprintf("Field definition not found: %d", id)}
}

// Validation reports rejected input.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Malformed reports input that could not be parsed in a strict context.
func Malformed(format string, args ...any) *Error {
	return &Error{Kind: KindMalformed, Message: fmt.Sprintf(format, args...)}
}

// Persistence wraps an underlying storage error.
func Persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Message: "Database error", Err: err}
}

// Internal reports an unexpected failure.
func Internal(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is any of the not-found kinds.
func IsNotFound(err error) bool {
	switch KindOf(err) {
	case KindVaultNotFound, KindEntryNotFound, KindFieldNotFound:
		return true
	}
	return false
}
