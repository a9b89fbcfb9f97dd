// Package value implements the Sass dynamic value model (spec 4.1): a
// tagged union of Null, Boolean, Number, Color, String, List, Map,
// Function, and ArgumentList, with arithmetic, comparison, truthiness,
// and stringification. Grounded on the teacher's node-per-variant style
// (toakleaf-less.go less_go/number.go, quoted.go, list.go, boolean.go,
// anonymous.go) adapted from LESS's AST-node values (which carry source
// spans and re-evaluate) to Sass's fully-reduced runtime values (which
// don't — evaluation already happened by the time a Value exists).
package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sasscore/sasscore/errs"
)

// Value is implemented by every runtime value variant. Equality and
// truthiness are defined per spec 3: every Value is immutable except
// ArgumentList.WereKeywordsAccessed.
type Value interface {
	// CSSText renders the value the way it would appear in emitted CSS
	// (unquoted strings, canonical number formatting).
	CSSText() string
	// Inspect renders the value the way `@debug`/Sass-list contexts show
	// it (quoted strings keep their quotes).
	Inspect() string
	// Truthy implements Sass truthiness: only Null and Boolean(false) are
	// false (spec 3).
	Truthy() bool
	// Equal implements structural equality; Map equality ignores
	// insertion order, Number equality requires unit-compatible
	// coercion, String equality ignores quoting (spec 3).
	Equal(other Value) bool
}

// Null is the single Sass null value.
type Null struct{}

func (Null) CSSText() string      { return "" }
func (Null) Inspect() string      { return "null" }
func (Null) Truthy() bool         { return false }
func (Null) Equal(o Value) bool   { _, ok := o.(Null); return ok }

var TheNull = Null{}

// Boolean wraps a Sass bool.
type Boolean struct{ V bool }

func (b Boolean) CSSText() string { return b.Inspect() }
func (b Boolean) Inspect() string {
	if b.V {
		return "true"
	}
	return "false"
}
func (b Boolean) Truthy() bool { return b.V }
func (b Boolean) Equal(o Value) bool {
	ob, ok := o.(Boolean)
	return ok && ob.V == b.V
}

var (
	True  = Boolean{true}
	False = Boolean{false}
)

func Bool(v bool) Boolean {
	if v {
		return True
	}
	return False
}

// Function wraps a reference to a callable (user-defined or built-in),
// the value produced by get-function() and accepted by call().
type Function struct {
	Name     string
	Callable any // *eval.Callable, kept as `any` to avoid an import cycle
}

func (f Function) CSSText() string    { return fmt.Sprintf("get-function(%q)", f.Name) }
func (f Function) Inspect() string    { return f.CSSText() }
func (f Function) Truthy() bool       { return true }
func (f Function) Equal(o Value) bool {
	of, ok := o.(Function)
	return ok && of.Name == f.Name && of.Callable == f.Callable
}

// --- coercions (spec 4.1: assert_string, assert_number, assert_map, assert_function) ---

func AssertNumber(v Value, name string) (Number, error) {
	if n, ok := v.(Number); ok {
		return n, nil
	}
	return Number{}, errs.NewScriptError("%s: %s is not a number", name, v.Inspect())
}

func AssertString(v Value, name string) (String, error) {
	if s, ok := v.(String); ok {
		return s, nil
	}
	return String{}, errs.NewScriptError("%s: %s is not a string", name, v.Inspect())
}

func AssertMap(v Value, name string) (Map, error) {
	if m, ok := v.(Map); ok {
		return m, nil
	}
	return Map{}, errs.NewScriptError("%s: %s is not a map", name, v.Inspect())
}

func AssertFunction(v Value, name string) (Function, error) {
	if f, ok := v.(Function); ok {
		return f, nil
	}
	return Function{}, errs.NewScriptError("%s: %s is not a function reference", name, v.Inspect())
}

// AsList returns a contiguous sequence view of v (spec 4.1: "as_list").
// A bare scalar behaves as a single-element list; a Map viewed as_list
// yields two-element [key, value] lists, per spec 3.
func AsList(v Value) []Value {
	switch t := v.(type) {
	case List:
		return t.Items
	case Map:
		out := make([]Value, 0, len(t.Keys))
		for i, k := range t.Keys {
			out = append(out, List{Items: []Value{k, t.Values[i]}, Separator: SepSpace})
		}
		return out
	default:
		return []Value{v}
	}
}

func LengthAsList(v Value) int { return len(AsList(v)) }

// unquotedText renders a string value unquoted for CSS text contexts,
// used when interpolating values into selectors/declarations/strings.
func unquotedText(v Value) string {
	if s, ok := v.(String); ok {
		return s.Text
	}
	return v.CSSText()
}

// formatNumber renders a float the way Sass prints numbers: no trailing
// zeros, no exponent notation for ordinary magnitudes.
func formatNumber(f float64) string {
	if f == float64(int64(f)) && (f < 1e15 && f > -1e15) {
		return strconv.FormatInt(int64(f), 10)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return s
}

func joinUnits(units []string) string {
	return strings.Join(units, "*")
}

func mapKeyIndex(m Map, key Value) int {
	for i, k := range m.Keys {
		if k.Equal(key) {
			return i
		}
	}
	return -1
}
