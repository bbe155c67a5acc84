package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by the core.
type ErrorKind string

// Error kinds. Validation and auth failures are raised before any store I/O.
const (
	KindValidation  ErrorKind = "validation"
	KindAuth        ErrorKind = "auth"
	KindStorage     ErrorKind = "storage"
	KindPersistence ErrorKind = "persistence"
	KindNotFound    ErrorKind = "not_found"
)

// Error is the single error type returned across the core. Message is the
// normalized human readable text; Err keeps the underlying cause for errors.Is/As.
type Error struct {
	Kind    ErrorKind
	Op      string
	Entity  EntityType
	ID      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind so callers can write errors.Is(err, domain.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels usable with errors.Is.
var (
	ErrValidation  = &Error{Kind: KindValidation}
	ErrAuth        = &Error{Kind: KindAuth}
	ErrStorage     = &Error{Kind: KindStorage}
	ErrPersistence = &Error{Kind: KindPersistence}
	ErrNotFound    = &Error{Kind: KindNotFound}
)

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or "" when err is not a domain error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// messager is implemented by driver errors exposing a nested message field,
// e.g. smithy-go APIError.
type messager interface {
	ErrorMessage() string
}

// MessageOf normalizes err into one human readable string, preferring a nested
// message field over the stringified error.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	var m messager
	if errors.As(err, &m) {
		if msg := m.ErrorMessage(); msg != "" {
			return msg
		}
	}
	return err.Error()
}

// NewValidationError reports a rejected payload.
func NewValidationError(op string, entity EntityType, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// NewAuthError reports a missing or invalid principal.
func NewAuthError(op string, err error) *Error {
	msg := "authentication required"
	if err != nil {
		msg = MessageOf(err)
	}
	return &Error{Kind: KindAuth, Op: op, Message: msg, Err: err}
}

// NewStorageError wraps an object store failure.
func NewStorageError(op string, key string, err error) *Error {
	return &Error{Kind: KindStorage, Op: op, Entity: EntityDocument, ID: key, Message: MessageOf(err), Err: err}
}

// NewPersistenceError wraps a relational store failure.
func NewPersistenceError(op string, entity EntityType, err error) *Error {
	return &Error{Kind: KindPersistence, Op: op, Entity: entity, Message: MessageOf(err), Err: err}
}

// NewNotFoundError reports a single-row fetch that matched nothing.
func NewNotFoundError(entity EntityType, id string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Message: fmt.Sprintf("%s %s not found", entity, id)}
}
