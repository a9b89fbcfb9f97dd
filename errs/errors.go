// Package errs implements the evaluator's error and stack-trace model:
// ScriptError (operand-level, no span), RuntimeError (user-facing, span +
// trace), and FormatError (raised when re-parsed interpolated text is
// invalid). Grounded on the teacher's *LessError (toakleaf-less.go
// less_go/import.go, ruleset.go): a concrete error struct carrying
// position and a rendered trace rather than panic-based control flow.
package errs

import (
	"fmt"
	"strings"
)

// Span is a source location. The parser (out of scope) attaches Spans to
// every AST node; the evaluator only ever reads them.
type Span struct {
	URL         string
	Start       int
	End         int
	Line        int
	Column      int
	ContextText string
}

func (s Span) String() string {
	if s.URL == "" {
		return fmt.Sprintf("%d:%d", s.Line, s.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.URL, s.Line, s.Column)
}

// Frame is one call-stack entry: the member being executed and the AST
// node of its call site. The span is derived lazily from CallSite only
// when a trace actually needs rendering (section 3: "Call stack frame").
type Frame struct {
	Member   string
	CallSite interface{ Span() Span }
}

// ScriptError is raised by Value-model operations (arithmetic, coercion,
// comparison). It carries no span; the evaluator attaches one at the call
// site that triggered it. Mirrors the teacher's practice of returning a
// bare `error` from low-level helpers and only wrapping position
// information at the statement/expression-visiting layer.
type ScriptError struct {
	Message string
}

func (e *ScriptError) Error() string { return e.Message }

func NewScriptError(format string, args ...any) *ScriptError {
	return &ScriptError{Message: fmt.Sprintf(format, args...)}
}

// FormatError is raised when re-parsing interpolated text (selectors,
// media queries, at-root queries) fails. The evaluator recovers it into a
// RuntimeError whose span points inside the original interpolation span.
type FormatError struct {
	Message string
	Span    Span
}

func (e *FormatError) Error() string { return e.Message }

// RuntimeError is the single fatal exception type the evaluator surfaces
// outward (section 7: "All fatal errors surface as a single exception
// type"). It carries a UTF-8 message, a primary span, and a trace
// rendered innermost-first.
type RuntimeError struct {
	Message string
	Span    Span
	Trace   []Frame
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Span.URL != "" || e.Span.Line != 0 {
		fmt.Fprintf(&b, "\n  %s", e.Span)
	}
	for _, f := range e.Trace {
		if f.CallSite != nil {
			fmt.Fprintf(&b, "\n  %s\n  %s", f.CallSite.Span(), f.Member)
		} else {
			fmt.Fprintf(&b, "\n  %s", f.Member)
		}
	}
	return b.String()
}

// NewRuntimeError wraps a ScriptError/FormatError/plain error with the
// span at which it was raised and a snapshot of the current stack. Stack
// frames are pushed on entry and popped unconditionally on exit (both
// success and failure paths); an error carries whatever frames were live
// at the moment it propagated, per section 4.8.
func NewRuntimeError(cause error, span Span, trace []Frame) *RuntimeError {
	msg := cause.Error()
	if fe, ok := cause.(*FormatError); ok {
		span = fe.Span
		msg = fe.Message
	}
	frozen := make([]Frame, len(trace))
	copy(frozen, trace)
	return &RuntimeError{Message: msg, Span: span, Trace: frozen}
}

// RenderTrace renders the stack innermost-first as the textual form the CLI and
// logger print (section 6: "Errors reported outward").
func (e *RuntimeError) RenderTrace() string {
	lines := make([]string, 0, len(e.Trace)+1)
	lines = append(lines, fmt.Sprintf("Error: %s", e.Message))
	for _, f := range e.Trace {
		if f.CallSite != nil {
			lines = append(lines, fmt.Sprintf("  %s %s", f.CallSite.Span(), f.Member))
		} else {
			lines = append(lines, fmt.Sprintf("  %s", f.Member))
		}
	}
	return strings.Join(lines, "\n")
}
