// Package diag defines the diagnostic taxonomy raised by the compiler
// core.
//
// Every error the core can raise is a [*Error]: a stable [Code], a
// human-readable message, the source [location.Span] borrowed from the
// offending AST node, and — for [E_UnresolvedReference] only — a short
// list of "did you mean" hints. Compilation is total: the first [*Error]
// raised by any phase aborts the whole compile call, so unlike the
// teacher's diag.Collector (which batches many issues for an IDE to
// render at once) this package never accumulates more than one.
package diag

import (
	"fmt"

	"github.com/gelflux/sdlc/location"
)

// Error is the diagnostic type every compiler phase returns.
type Error struct {
	code    Code
	message string
	span    location.Span
	hints   []string
}

// New constructs an Error. Panics if code is the zero Code — that is a
// programmer error at the call site, not a condition callers recover
// from.
func New(code Code, message string) *Error {
	if code.IsZero() {
		panic("diag.New: zero Code")
	}
	return &Error{code: code, message: message}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil diag.Error>"
	}
	if e.span.IsZero() {
		return fmt.Sprintf("%s: %s", e.code, e.message)
	}
	return fmt.Sprintf("%s: %s: %s", e.span, e.code, e.message)
}

// Code returns the stable diagnostic code.
func (e *Error) Code() Code { return e.code }

// Message returns the human-readable message, without the code or span
// prefix that Error() adds.
func (e *Error) Message() string { return e.message }

// Span returns the source location, if any, borrowed from the
// offending AST node.
func (e *Error) Span() location.Span { return e.span }

// Hints returns up to three "did you mean" suggestions, only ever
// populated on [E_UnresolvedReference].
func (e *Error) Hints() []string { return e.hints }

// WithSpan attaches a source location and returns e for chaining.
func (e *Error) WithSpan(s location.Span) *Error {
	e.span = s
	return e
}

// WithHints attaches closest-name suggestions and returns e for
// chaining. Per the resolver caps this at three entries;
// callers are expected to have already applied that cap.
func (e *Error) WithHints(hints []string) *Error {
	e.hints = hints
	return e
}
