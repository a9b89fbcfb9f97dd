package eval

import (
	"github.com/sasscore/sasscore/ast"
	"github.com/sasscore/sasscore/env"
	"github.com/sasscore/sasscore/errs"
	"github.com/sasscore/sasscore/value"
)

// callSite is the call-shape the argument binder needs, extracted from
// either a FunctionCallExpr or an IncludeRule so both share one binding
// implementation (spec 4.2's argument-binding rule applies identically to
// function and mixin invocations).
type callSite struct {
	Name       string
	Span       errs.Span
	Positional []ast.Expression
	Named      map[string]ast.Expression
	NamedOrder []string // call-site insertion order for Named, since Go maps don't preserve it
	Rest       ast.Expression
	RestMap    ast.Expression
}

func callSiteFromCall(call *ast.FunctionCallExpr) callSite {
	return callSite{Name: call.Name, Span: call.Span(), Positional: call.Positional, Named: call.Named, NamedOrder: call.NamedOrder, Rest: call.Rest, RestMap: call.RestMap}
}

func callSiteFromInclude(inc *ast.IncludeRule) callSite {
	return callSite{Name: inc.Name, Span: inc.Span(), Positional: inc.Positional, Named: inc.Named, NamedOrder: inc.NamedOrder, Rest: inc.RestArg}
}

// namedOrderOrFallback returns cs.NamedOrder when the caller supplied it, falling back
// to an arbitrary (map) order only for call sites built without one.
func (cs callSite) namedOrderOrFallback() []string {
	if len(cs.NamedOrder) == len(cs.Named) {
		return cs.NamedOrder
	}
	order := make([]string, 0, len(cs.Named))
	for k := range cs.Named {
		order = append(order, k)
	}
	return order
}

// evalFunctionCall resolves a call by name (user-defined function,
// built-in, or plain-CSS fallback) and invokes it, per spec 4.7's
// "Function call" evaluation rule.
func (e *Evaluator) evalFunctionCall(call *ast.FunctionCallExpr) (value.Value, error) {
	if call.Namespace == "" {
		if callable, ok := e.Environment.GetFunction(call.Name, ""); ok {
			if uc, ok := callable.(*UserDefinedCallable); ok {
				return e.invokeUserFunction(uc, callSiteFromCall(call))
			}
		}
		if bc, ok := e.builtins.lookup(call.Name); ok {
			return e.invokeBuiltin(bc, callSiteFromCall(call))
		}
		return e.evalPlainCSSCall(call)
	}
	callable, ok := e.Environment.GetFunction(call.Name, call.Namespace)
	if !ok {
		return nil, errs.NewScriptError("Undefined function.")
	}
	switch c := callable.(type) {
	case *UserDefinedCallable:
		return e.invokeUserFunction(c, callSiteFromCall(call))
	case *BuiltinCallable:
		return e.invokeBuiltin(c, callSiteFromCall(call))
	default:
		return nil, errs.NewScriptError("Undefined function.")
	}
}

func (e *Evaluator) evalPlainCSSCall(call *ast.FunctionCallExpr) (value.Value, error) {
	args, err := e.evalPositional(call.Positional)
	if err != nil {
		return nil, err
	}
	text := call.Name + "("
	for i, a := range args {
		if i > 0 {
			text += ", "
		}
		text += a.CSSText()
	}
	for i, name := range call.NamedOrder {
		if len(args) > 0 || i > 0 {
			text += ", "
		}
		v, err := e.evalExpr(call.Named[name])
		if err != nil {
			return nil, err
		}
		text += "$" + name + ": " + v.CSSText()
	}
	text += ")"
	return value.Unquoted(text), nil
}

func (e *Evaluator) evalPositional(exprs []ast.Expression) ([]value.Value, error) {
	out := make([]value.Value, 0, len(exprs))
	for _, a := range exprs {
		v, err := e.evalExpr(a)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// boundArgs is the result of binding a call site's arguments against a
// callable's declared parameter list (spec 4.2's argument-binding rule).
type boundArgs struct {
	byName   map[string]value.Value
	order    []string
	restList *value.ArgumentList // non-nil when a rest parameter captured named arguments
}

// checkKeywordsConsumed raises the "No argument named $k" error for the
// first keyword a rest parameter captured but the callee never read back
// via keywords() (spec 3: ArgumentList.WereKeywordsAccessed).
func (b *boundArgs) checkKeywordsConsumed() error {
	if b.restList == nil || len(b.restList.Named) == 0 || b.restList.WereKeywordsAccessed() {
		return nil
	}
	for _, k := range b.restList.NamedOrder {
		return errs.NewScriptError("No argument named $%s.", k)
	}
	return nil
}

func (e *Evaluator) evalArguments(params []ast.Argument, cs callSite) (*boundArgs, error) {
	positional, err := e.evalPositional(cs.Positional)
	if err != nil {
		return nil, err
	}
	named := map[string]value.Value{}
	var namedOrder []string
	addNamed := func(k string, v value.Value) {
		if _, dup := named[k]; !dup {
			namedOrder = append(namedOrder, k)
		}
		named[k] = v
	}
	for _, name := range cs.namedOrderOrFallback() {
		v, err := e.evalExpr(cs.Named[name])
		if err != nil {
			return nil, err
		}
		addNamed(name, v)
	}

	if cs.Rest != nil {
		rest, err := e.evalExpr(cs.Rest)
		if err != nil {
			return nil, err
		}
		switch rv := rest.(type) {
		case *value.ArgumentList:
			positional = append(positional, rv.Positional...)
			for _, k := range rv.NamedOrder {
				addNamed(k, rv.Named[k])
			}
		default:
			positional = append(positional, value.AsList(rv)...)
		}
	}
	if cs.RestMap != nil {
		rm, err := e.evalExpr(cs.RestMap)
		if err != nil {
			return nil, err
		}
		m, err := value.AssertMap(rm, cs.Name)
		if err != nil {
			return nil, err
		}
		for i, k := range m.Keys {
			s, err := value.AssertString(k, cs.Name)
			if err != nil {
				return nil, err
			}
			addNamed(s.Text, m.Values[i])
		}
	}

	bound := &boundArgs{byName: map[string]value.Value{}}
	pi := 0
	for _, param := range params {
		if param.Rest {
			restPositional := append([]value.Value{}, positional[pi:]...)
			restNamed := map[string]value.Value{}
			var order []string
			for _, k := range namedOrder {
				if v, ok := named[k]; ok {
					restNamed[k] = v
					order = append(order, k)
				}
			}
			restList := value.NewArgumentList(restPositional, restNamed, order, value.SepComma)
			bound.byName[param.Name] = restList
			bound.restList = restList
			bound.order = append(bound.order, param.Name)
			return bound, nil
		}
		var v value.Value
		if pi < len(positional) {
			v = positional[pi]
			pi++
			if _, dup := named[param.Name]; dup {
				return nil, errs.NewScriptError("%s was passed both by position and by name.", param.Name)
			}
		} else if nv, ok := named[param.Name]; ok {
			v = nv
			delete(named, param.Name)
		} else if param.Default != nil {
			dv, err := e.evalExpr(param.Default)
			if err != nil {
				return nil, err
			}
			v = dv
		} else {
			return nil, errs.NewScriptError("Missing argument $%s.", param.Name)
		}
		bound.byName[param.Name] = v
		bound.order = append(bound.order, param.Name)
	}
	if pi < len(positional) {
		return nil, errs.NewScriptError("Only %d argument(s) allowed, but %d were passed.", len(params), len(positional))
	}
	for _, k := range namedOrder {
		if _, ok := named[k]; ok {
			return nil, errs.NewScriptError("No argument named $%s.", k)
		}
	}
	return bound, nil
}

// invokeUserFunction runs a user @function body in its closure, expecting
// a @return to unwind with a value (spec 4.2, 4.7).
func (e *Evaluator) invokeUserFunction(uc *UserDefinedCallable, cs callSite) (value.Value, error) {
	bound, err := e.evalArguments(uc.Arguments, cs)
	if err != nil {
		return nil, err
	}
	var result value.Value
	err = e.pushFrame(uc.Name+"()", cs.Span, func() error {
		saved := e.Environment
		e.Environment = uc.Closure.Closure()
		defer func() { e.Environment = saved }()
		return e.Environment.Scope(false, true, func() error {
			wasInFunction := e.inFunction
			e.inFunction = true
			defer func() { e.inFunction = wasInFunction }()
			for _, name := range bound.order {
				e.Environment.Set(name, bound.byName[name], nil, env.SetOptions{})
			}
			rerr := e.execBody(uc.Body)
			if rs, ok := rerr.(*returnSignal); ok {
				result = rs.value
				return bound.checkKeywordsConsumed()
			}
			if rerr != nil {
				return rerr
			}
			return errs.NewScriptError("Function finished without @return.")
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Evaluator) invokeBuiltin(bc *BuiltinCallable, cs callSite) (value.Value, error) {
	positional, err := e.evalPositional(cs.Positional)
	if err != nil {
		return nil, err
	}
	named := map[string]value.Value{}
	for name, expr := range cs.Named {
		v, err := e.evalExpr(expr)
		if err != nil {
			return nil, err
		}
		named[name] = v
	}
	var result value.Value
	fn := bc.Sync
	if fn == nil {
		fn = BuiltinFunc(bc.Async)
	}
	err = e.pushFrame(bc.Name+"()", cs.Span, func() error {
		r, err := fn(positional, named)
		result = r
		return err
	})
	return result, err
}

// invokeUserMixin runs a @mixin body, optionally binding the @content
// block for @content statements inside it (spec 4.2, 4.7).
func (e *Evaluator) invokeUserMixin(uc *UserDefinedCallable, include *ast.IncludeRule) error {
	cs := callSiteFromInclude(include)
	bound, err := e.evalArguments(uc.Arguments, cs)
	if err != nil {
		return err
	}
	callerEnv := e.Environment
	return e.pushFrame(uc.Name+"()", cs.Span, func() error {
		saved := e.Environment
		e.Environment = uc.Closure.Closure()
		defer func() { e.Environment = saved }()
		return e.Environment.Scope(false, true, func() error {
			for _, name := range bound.order {
				e.Environment.Set(name, bound.byName[name], nil, env.SetOptions{})
			}
			run := func() error {
				return e.Environment.AsMixin(func() error { return e.execBody(uc.Body) })
			}
			var rerr error
			if include.Content != nil {
				binding := &env.ContentBinding{Callable: include.Content, Closure: callerEnv}
				rerr = e.Environment.WithContent(binding, run)
			} else {
				rerr = run()
			}
			if _, ok := rerr.(*returnSignal); ok {
				return nil
			}
			if rerr != nil {
				return rerr
			}
			return bound.checkKeywordsConsumed()
		})
	})
}
