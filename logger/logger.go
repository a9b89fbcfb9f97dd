// Package logger implements the evaluator's warning/debug sink (section
// 6's Logger contract). Grounded on toakleaf-less.go's less/logger.go
// Logger/LogListener fan-out, simplified to a single interface since the
// Sass core only ever needs one active sink per compilation rather than
// a multi-listener bus.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/sasscore/sasscore/errs"
)

// WarnOptions carries the optional span/trace/deprecation metadata a
// warning can be annotated with.
type WarnOptions struct {
	Span         *errs.Span
	Trace        []errs.Frame
	Deprecation  bool
}

// Logger is the sink for warnings, debug, and deprecation messages.
type Logger interface {
	Warn(message string, opts WarnOptions)
	Debug(message string, span errs.Span)
}

// DiscardLogger drops everything; used by evaluate_expression callers and
// tests that don't care about diagnostics.
type DiscardLogger struct{}

func (DiscardLogger) Warn(string, WarnOptions)   {}
func (DiscardLogger) Debug(string, errs.Span) {}

// StderrLogger is the default logger: writes to standard error, coloring
// output when attached to a terminal (mirrors how sammcj-ingest's CLI
// colors status output, falling back to plain text off a TTY).
type StderrLogger struct {
	Out   io.Writer
	color bool
}

func NewStderrLogger() *StderrLogger {
	isTTY := false
	if f, ok := any(os.Stderr).(*os.File); ok {
		isTTY = isatty.IsTerminal(f.Fd())
	}
	return &StderrLogger{Out: os.Stderr, color: isTTY}
}

func (l *StderrLogger) Warn(message string, opts WarnOptions) {
	label := "Warning"
	paint := color.New(color.FgYellow, color.Bold)
	if opts.Deprecation {
		label = "Deprecation Warning"
		paint = color.New(color.FgMagenta, color.Bold)
	}
	if l.color {
		fmt.Fprintf(l.Out, "%s: %s\n", paint.Sprint(label), message)
	} else {
		fmt.Fprintf(l.Out, "%s: %s\n", label, message)
	}
	if opts.Span != nil {
		fmt.Fprintf(l.Out, "  %s\n", opts.Span)
	}
	for _, f := range opts.Trace {
		fmt.Fprintf(l.Out, "    %s\n", f.Member)
	}
}

func (l *StderrLogger) Debug(message string, span errs.Span) {
	if l.color {
		fmt.Fprintf(l.Out, "%s: %s\n", color.New(color.FgCyan).Sprint("Debug"), message)
	} else {
		fmt.Fprintf(l.Out, "Debug: %s\n", message)
	}
	if span.URL != "" {
		fmt.Fprintf(l.Out, "  %s\n", span)
	}
}

// Capturing is a test double that records every call, the way the
// teacher's tests register a LogListener and assert against captured
// events.
type Capturing struct {
	Warnings []string
	Debugs   []string
}

func (c *Capturing) Warn(message string, _ WarnOptions) {
	c.Warnings = append(c.Warnings, message)
}

func (c *Capturing) Debug(message string, _ errs.Span) {
	c.Debugs = append(c.Debugs, message)
}
