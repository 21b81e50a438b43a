package errors

import (
	"fmt"
	"reflect"
)

const (
	// SuccessABCICode is the code of a transaction or query that did not
	// fail.
	SuccessABCICode = 0

	// Errors that do not wrap a registered root error are internal. Outside
	// of debug mode their message is replaced by internalABCILog.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log of an ABCI response failing with err.
// Registered errors keep their message. In debug mode the log carries the
// full error, stack trace included.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return internalABCICode, internalABCILog
	default:
		return code, err.Error()
	}
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first error in the chain of causes that
// has one.
func abciCode(err error) uint32 {
	if errIsNil(err) {
		return SuccessABCICode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			return internalABCICode
		}
		err = c.Cause()
	}
}

// errIsNil also treats typed nil pointers as nil.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}

// ABCIError rebuilds an error from the code and log of an ABCI response,
// so that clients can test it with ErrNotFound.Is and friends. Unknown
// codes never match a root error.
func ABCIError(code uint32, log string) error {
	if e, ok := usedCodes[code]; ok && e != nil {
		if log == e.desc {
			return e
		}
		return &wrappedError{parent: e, msg: trimSuffix(log, ": "+e.desc)}
	}
	return Wrap(&Error{code: code, desc: "unknown error code"}, log)
}

func trimSuffix(s, suffix string) string {
	if len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix {
		return s[:len(s)-len(suffix)]
	}
	return s
}
