package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized means a required signature is missing.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound means an account or record does not exist.
	ErrNotFound = Register(3, "not found")

	ErrMsg = Register(4, "invalid message")

	// ErrModel means stored bytes cannot be read as the expected record.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate means a record already exists under the key.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman marks a code path that a correct program never reaches.
	ErrHuman = Register(7, "coding error")

	ErrEmpty = Register(9, "value is empty")
	ErrState = Register(10, "invalid state")
	ErrType  = Register(11, "invalid type")

	// ErrInsufficientAmount means a balance cannot cover a transfer or
	// a rent deposit.
	ErrInsufficientAmount = Register(12, "insufficient amount")

	ErrAmount = Register(13, "invalid amount")
	ErrInput  = Register(14, "invalid input")

	// ErrOverflow means a checked arithmetic operation exceeded its type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrConstraint is returned when accounts passed to an instruction do
	// not match the relations stored in the state, ie. wrong owner.
	ErrConstraint = Register(17, "constraint violated")

	// ErrDatabase is returned when the storage backend fails.
	ErrDatabase = Register(18, "database error")

	// ErrIteratorDone ends every iteration. It is not a failure.
	ErrIteratorDone = Register(19, "iterator done")

	// ErrAccountInUse is returned when a transaction writes to an account
	// that is locked by another transaction being executed.
	ErrAccountInUse = Register(20, "account in use")

	// ErrPanic wraps a recovered panic. Its message is never exposed
	// outside of debug mode.
	ErrPanic = Register(111222, "panic")
)

// Register declares a root error with a unique ABCI code. Registering a
// code twice panics, so call it from package level variables only.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{code: code, desc: description}
	usedCodes[code] = err
	return err
}

// Code 1 is reserved for internal errors.
var usedCodes = map[uint32]*Error{
	1: nil,
}

// Error is a root error. Errors returned by handlers wrap one of them, which
// gives the client a stable code to act on.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Is reports whether err is kind or wraps it. A nil kind matches nil
// errors only, including typed nil pointers.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}
	for {
		if err == kind {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
}

// Is returns true if given error or any of its causes is the same as kind.
func Is(err error, kind *Error) bool {
	return kind.Is(err)
}

// Wrap adds description to err. Errors without an ABCI code are reported
// as internal. A nil err stays nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	// The stack is captured once, at the innermost wrap.
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{parent: err, msg: description}
}

func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover turns a panic into an ErrPanic assigned to *err. It must be
// deferred.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// WithType adds the Go type of obj to err.
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

type causer interface {
	Cause() error
}
