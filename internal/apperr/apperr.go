// Package apperr defines the failure kinds returned by the billing, settlement
// and payroll services.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

// Kind constants.
const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindAlreadyParked
	KindInvalidInput
	KindNoRateConfigured
	KindNoActiveShift
	KindNotParked
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAlreadyParked:
		return "already_parked"
	case KindInvalidInput:
		return "invalid_input"
	case KindNoRateConfigured:
		return "no_rate_configured"
	case KindNoActiveShift:
		return "no_active_shift"
	case KindNotParked:
		return "not_parked"
	default:
		return "internal"
	}
}

// Error is a typed failure with an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Sentinel errors for errors.Is checks.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrAlreadyParked    = &Error{Kind: KindAlreadyParked}
	ErrInvalidInput     = &Error{Kind: KindInvalidInput}
	ErrNoRateConfigured = &Error{Kind: KindNoRateConfigured}
	ErrNoActiveShift    = &Error{Kind: KindNoActiveShift}
	ErrNotParked        = &Error{Kind: KindNotParked}
)

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches sentinels by kind. AlreadyParked also matches ErrConflict.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil || t.Msg != "" || t.Err != nil {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	return t.Kind == KindConflict && e.Kind == KindAlreadyParked
}

// KindOf returns the kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) && typed != nil {
		return typed.Kind
	}
	return KindInternal
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity.
func NotFound(format string, args ...any) error { return newf(KindNotFound, format, args...) }

// Conflict reports a uniqueness or state conflict.
func Conflict(format string, args ...any) error { return newf(KindConflict, format, args...) }

// ConflictWrap reports a conflict detected by the store.
func ConflictWrap(err error, format string, args ...any) error {
	e := newf(KindConflict, format, args...)
	e.Err = err
	return e
}

// AlreadyParked reports a second admission of a parked vehicle.
func AlreadyParked(plate string) error {
	return newf(KindAlreadyParked, "vehicle %s already has an open parking record", plate)
}

// InvalidInput reports a rejected argument.
func InvalidInput(format string, args ...any) error { return newf(KindInvalidInput, format, args...) }

// NoRateConfigured reports a missing active rate.
func NoRateConfigured(vehicleType, unit string) error {
	return newf(KindNoRateConfigured, "no active %s rate for vehicle type %s", unit, vehicleType)
}

// NoActiveShift reports an admin without an open shift.
func NoActiveShift(adminID uint64) error {
	return newf(KindNoActiveShift, "admin %d has no active shift", adminID)
}

// NotParked reports an exit for a vehicle without an open record.
func NotParked(plate string) error {
	return newf(KindNotParked, "vehicle %s has no open parking record", plate)
}

// Message returns the caller-facing message of err without its wrapped cause.
func Message(err error) string {
	var typed *Error
	if errors.As(err, &typed) && typed != nil {
		if typed.Msg != "" {
			return typed.Msg
		}
		return typed.Kind.String()
	}
	return "internal error"
}
