// Package eval implements the evaluator visitor (spec 4.7): it walks
// statements and expressions, maintains evaluation-time state (current
// parent, current style rule, media stack, call stack, etc.), and
// orchestrates every other component.
//
// Grounded on the teacher's Eval context and dispatch style
// (toakleaf-less.go less_go/contexts.go, call.go, ruleset.go), adapted
// from LESS's re-evaluate-on-every-reference model (a LESS Ruleset
// re-walks its rules each time it's mixed in) to Sass's evaluate-once
// visitor over an immutable AST that builds a separate mutable output
// tree (spec 4.7's own framing: "simultaneously builds a mutable CSS
// output tree while walking an immutable input tree").
package eval

import (
	"github.com/sasscore/sasscore/ast"
	"github.com/sasscore/sasscore/env"
	"github.com/sasscore/sasscore/value"
)

// Callable is implemented by every invocable thing: a user-defined
// function/mixin, a synchronous or asynchronous built-in, or a
// plain-CSS call that just serializes its arguments textually (spec
// 4.7, design notes section 9: "Dynamic dispatch on callables... Use a
// tagged variant").
type Callable interface {
	CallableName() string
}

// UserDefinedCallable is a user `@function`/`@mixin` declaration plus
// the closure it captured at declaration time (spec 4.2).
type UserDefinedCallable struct {
	Name      string
	Arguments []ast.Argument
	RestArg   string
	Body      []ast.Statement
	Closure   *env.Environment
	IsMixin   bool
	HasContent bool
}

func (c *UserDefinedCallable) CallableName() string { return c.Name }

// BuiltinFunc is a synchronous built-in function implementation: the
// call site's evaluated positional and named arguments, exactly as
// written (no defaults applied, no rest parameter collected), in, a
// Value out.
type BuiltinFunc func(args []value.Value, named map[string]value.Value) (value.Value, error)

// BuiltinAsyncFunc mirrors BuiltinFunc but may suspend (spec section 5:
// "Asynchronous built-in callable invocations"); modeled as an ordinary
// Go function since the evaluator itself is synchronous per statement
// and the caller is expected to block until the future resolves (spec
// design notes: "model as explicit task futures or as synchronous
// indirection through a trampoline").
type BuiltinAsyncFunc func(args []value.Value, named map[string]value.Value) (value.Value, error)

// BuiltinCallable wraps a registered built-in: a name plus a synchronous
// or asynchronous implementation (spec section 6: "Built-in callable
// contract"). It holds no overload table; invokeBuiltin passes the
// arguments through without checking them against any declared arity or
// named keys.
type BuiltinCallable struct {
	Name  string
	Sync  BuiltinFunc
	Async BuiltinAsyncFunc
}

func (c *BuiltinCallable) CallableName() string { return c.Name }

func (c *BuiltinCallable) IsAsync() bool { return c.Async != nil }

// PlainCSSCallable represents a call with no matching Sass function: the
// evaluator serializes its arguments textually and emits it as a CSS
// function call (spec 4.7: "Function call... a purely plain-CSS call...
// serializes arguments textually").
type PlainCSSCallable struct{ Name string }

func (c *PlainCSSCallable) CallableName() string { return c.Name }
