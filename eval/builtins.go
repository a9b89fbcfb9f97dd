package eval

import (
	"github.com/sasscore/sasscore/errs"
	"github.com/sasscore/sasscore/module"
	"github.com/sasscore/sasscore/value"
)

// builtinRegistry indexes registered built-in callables by name (spec
// 4.7's "Built-in callable contract"); the full standard built-in
// function library (color, list, map, string, math helpers) is an
// external collaborator per the out-of-scope note in section 1, so this
// registry only holds whatever a host supplies via Options.Functions at
// construction time plus the handful of core built-ins the evaluator
// itself depends on (type-of, inspect, keywords). if() is not in this
// registry: it is evaluated as its own expression node.
type builtinRegistry struct {
	byName map[string]*BuiltinCallable
}

func newBuiltinRegistry() *builtinRegistry {
	r := &builtinRegistry{byName: map[string]*BuiltinCallable{}}
	for _, c := range coreBuiltins() {
		r.add(c.Name, c)
	}
	return r
}

func (r *builtinRegistry) add(name string, c *BuiltinCallable) { r.byName[name] = c }

func (r *builtinRegistry) lookup(name string) (*BuiltinCallable, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// registerCoreModules wires the built-in module namespaces (`sass:math`,
// `sass:color`, etc., spec 4.6's "Built-in modules bypass the importer")
// that a host can @use without an Importer. The evaluator ships none of
// the function bodies themselves (out of scope, section 1); a host
// populates them via Options.Functions and associates them with a
// namespace by calling Loader.RegisterBuiltin with a *module.Module whose
// Functions map points at entries from that registry.
func registerCoreModules(loader *module.Loader) {
	// Intentionally empty: which built-in modules exist, and what they
	// export, is a host concern (spec's built-in function library is
	// external). A host wires its own sass:* modules via
	// loader.RegisterBuiltin after constructing the Evaluator.
}

// coreBuiltins returns the handful of introspection built-ins that are
// pure Value-model operations rather than the (externally supplied)
// standard function library, grounded on spec 4.1's as_list/type
// predicates.
func coreBuiltins() []*BuiltinCallable {
	return []*BuiltinCallable{
		{Name: "type-of", Sync: builtinTypeOf},
		{Name: "inspect", Sync: builtinInspect},
		{Name: "keywords", Sync: builtinKeywords},
	}
}

func builtinTypeOf(args []value.Value, named map[string]value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, errs.NewScriptError("type-of() takes exactly one argument.")
	}
	switch args[0].(type) {
	case value.Null:
		return value.Unquoted("null"), nil
	case value.Boolean:
		return value.Unquoted("bool"), nil
	case value.Number:
		return value.Unquoted("number"), nil
	case value.String:
		return value.Unquoted("string"), nil
	case value.Color:
		return value.Unquoted("color"), nil
	case value.List, *value.ArgumentList:
		return value.Unquoted("list"), nil
	case value.Map:
		return value.Unquoted("map"), nil
	case value.Function:
		return value.Unquoted("function"), nil
	default:
		return value.Unquoted("string"), nil
	}
}

func builtinInspect(args []value.Value, named map[string]value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, errs.NewScriptError("inspect() takes exactly one argument.")
	}
	return value.Unquoted(args[0].Inspect()), nil
}

// builtinKeywords implements keywords($args): extracts the named
// arguments of an argument list as a map, marking it consumed so the
// evaluator's "No argument named ..." check is suppressed for it (spec
// 3's ArgumentList.WereKeywordsAccessed).
func builtinKeywords(args []value.Value, named map[string]value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, errs.NewScriptError("keywords() takes exactly one argument.")
	}
	al, ok := args[0].(*value.ArgumentList)
	if !ok {
		return nil, errs.NewScriptError("keywords(): %s is not an argument list.", args[0].Inspect())
	}
	al.MarkKeywordsAccessed()
	return al.Keywords(), nil
}
