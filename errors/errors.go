package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind categorizes the error.
type Kind string

const (
	// KindNotFound reports a name or handle lookup miss.
	KindNotFound Kind = "not_found"
	// KindInvalidName reports a name violating length or charset rules,
	// detected before any engine round-trip.
	KindInvalidName Kind = "invalid_name"
	// KindAlreadyExists reports a duplicate name where the engine
	// enforces uniqueness.
	KindAlreadyExists Kind = "already_exists"
	// KindTypeMismatch reports a value requested or supplied as an
	// incompatible kind.
	KindTypeMismatch Kind = "type_mismatch"
	// KindUnsupported reports a native type id or operation the layer
	// does not map.
	KindUnsupported Kind = "unsupported"
	// KindEngine wraps any other native status code.
	KindEngine Kind = "engine"
)

// Error is the structured error type used throughout the library.
type Error struct {
	Cause  error
	Op     string // operation that failed, e.g. "Group.AddDimension"
	Kind   Kind
	Name   string // entity name involved, if any
	Detail string
	Status int // native status code, KindEngine only
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(string(e.Kind))
	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}
	if e.Name != "" {
		b.WriteString(": ")
		fmt.Fprintf(&b, "%q", e.Name)
	}
	if e.Kind == KindEngine {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap supports errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error with the same Kind, ignoring context fields.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// KindOf returns the Kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// NotFound reports a lookup miss for name.
func NotFound(op, name string) *Error {
	return &Error{Op: op, Kind: KindNotFound, Name: name}
}

// InvalidName reports a name rejected by pre-engine validation.
func InvalidName(op, name, detail string) *Error {
	return &Error{Op: op, Kind: KindInvalidName, Name: name, Detail: detail}
}

// AlreadyExists reports a duplicate name in a uniqueness scope.
func AlreadyExists(op, name string) *Error {
	return &Error{Op: op, Kind: KindAlreadyExists, Name: name}
}

// TypeMismatch reports an incompatible value kind.
func TypeMismatch(op, detail string) *Error {
	return &Error{Op: op, Kind: KindTypeMismatch, Detail: detail}
}

// Unsupported reports an unmapped native type id or operation.
func Unsupported(op, detail string) *Error {
	return &Error{Op: op, Kind: KindUnsupported, Detail: detail}
}

// Engine wraps a native status code that has no more specific kind.
func Engine(op string, status int, cause error) *Error {
	return &Error{Op: op, Kind: KindEngine, Status: status, Cause: cause}
}
