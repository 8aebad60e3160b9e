/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package perr defines the single discriminated error type used across the
// pdfscript front end and processor (spec §7). Every fatal condition raised
// by the lexer, reader or processor is a *perr.Error with a Kind that a
// caller can switch on or test with errors.Is against the Kind sentinels.
package perr

import "fmt"

// Kind discriminates the error categories of spec §7.
type Kind int

// Error kinds.
const (
	// Lexer errors: malformed number, unterminated string, bad hex,
	// unexpected byte.
	KindLexer Kind = iota
	// Reader errors: unexpected token, invalid dictionary key, invalid
	// composite at EOF, unknown operator, operand-type mismatch,
	// undeclared variable.
	KindReader
	// Processor errors: prolog out of place, name collision, reserved
	// name, variable type mismatch, unknown template, non-positive page
	// dimensions, operator not allowed here, graphics-state underflow,
	// unresolved resource, pattern/colour type mismatch, missing font
	// state before text.
	KindProcessor
)

func (k Kind) String() string {
	switch k {
	case KindLexer:
		return "LexerError"
	case KindReader:
		return "ReaderError"
	case KindProcessor:
		return "ProcessorError"
	default:
		return "Error"
	}
}

// Error is the fatal error type shared by every pdfscript component. All
// errors it carries are fatal to the current document build (spec §7): the
// pipeline does not recover at the statement level.
type Error struct {
	Kind    Kind
	Message string
	// Wrapped is an optional underlying cause (e.g. an io error from the
	// input stream).
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap supports errors.Is/errors.As against the wrapped cause.
func (e *Error) Unwrap() error { return e.Wrapped }

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, perr.Lexer("")) style checks work without comparing
// messages.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Lexer builds a LexerError.
func Lexer(format string, args ...interface{}) *Error {
	return &Error{Kind: KindLexer, Message: fmt.Sprintf(format, args...)}
}

// Reader builds a ReaderError.
func Reader(format string, args ...interface{}) *Error {
	return &Error{Kind: KindReader, Message: fmt.Sprintf(format, args...)}
}

// Processor builds a ProcessorError.
func Processor(format string, args ...interface{}) *Error {
	return &Error{Kind: KindProcessor, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches cause as the wrapped error and returns e, for chaining at
// the call site, e.g. return perr.Lexer("reading number").Wrap(err).
func (e *Error) Wrap(cause error) *Error {
	e.Wrapped = cause
	return e
}
