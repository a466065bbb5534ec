package main

import "fmt"

// errKind classifies a vmError. Every
// builtin and interpreter phase that can fail reports one of these, and
// every one of them unwinds to the `abort` boundary.
type errKind int

const (
	errParse errKind = iota
	errLookup
	errType
	errRange
	errArithmetic
	errStack
	errState
	errIO
	errAbort // explicit user abort, e.g. via `abort"`
)

func (k errKind) String() string {
	switch k {
	case errParse:
		return "parse error"
	case errLookup:
		return "lookup error"
	case errType:
		return "type error"
	case errRange:
		return "range error"
	case errArithmetic:
		return "arithmetic error"
	case errStack:
		return "stack error"
	case errState:
		return "state error"
	case errIO:
		return "io error"
	case errAbort:
		return "aborted"
	default:
		return "error"
	}
}

// vmError is the concrete error type carried by every abort; its kind
// prefixes the message printed on the interactive console.
type vmError struct {
	kind errKind
	msg  string
	loc  string // input location, appended by Error when set; the VM itself never sets it
}

func (e *vmError) Error() string {
	if e.loc != "" {
		return fmt.Sprintf("%v: %v (%v)", e.kind, e.msg, e.loc)
	}
	return fmt.Sprintf("%v: %v", e.kind, e.msg)
}

func parseErrorf(format string, args ...interface{}) error {
	return &vmError{kind: errParse, msg: fmt.Sprintf(format, args...)}
}

func lookupErrorf(format string, args ...interface{}) error {
	return &vmError{kind: errLookup, msg: fmt.Sprintf(format, args...)}
}

func typeErrorf(format string, args ...interface{}) error {
	return &vmError{kind: errType, msg: fmt.Sprintf(format, args...)}
}

func rangeErrorf(format string, args ...interface{}) error {
	return &vmError{kind: errRange, msg: fmt.Sprintf(format, args...)}
}

func arithmeticErrorf(format string, args ...interface{}) error {
	return &vmError{kind: errArithmetic, msg: fmt.Sprintf(format, args...)}
}

func stateErrorf(format string, args ...interface{}) error {
	return &vmError{kind: errState, msg: fmt.Sprintf(format, args...)}
}

func ioErrorf(format string, args ...interface{}) error {
	return &vmError{kind: errIO, msg: fmt.Sprintf(format, args...)}
}

func userAbortf(format string, args ...interface{}) error {
	return &vmError{kind: errAbort, msg: fmt.Sprintf(format, args...)}
}
