package eval

import (
	"github.com/sasscore/sasscore/ast"
	"github.com/sasscore/sasscore/errs"
	"github.com/sasscore/sasscore/value"
)

// evalExpr dispatches expression evaluation (spec 4.7's expression
// visitor half), mirroring ExecuteStatement's statement dispatch.
func (e *Evaluator) evalExpr(expr ast.Expression) (value.Value, error) {
	switch x := expr.(type) {
	case *ast.NullLiteral:
		return value.TheNull, nil
	case *ast.BoolLiteral:
		return value.Bool(x.Value), nil
	case *ast.NumberLiteral:
		return value.NewNumber(x.Value, x.Unit), nil
	case *ast.ColorLiteral:
		return value.Color{R: x.R, G: x.G, B: x.B, A: x.A, OriginalFormat: x.Original}, nil
	case *ast.StringLiteral:
		text, err := e.evalInterpolation(x.Text)
		if err != nil {
			return nil, err
		}
		return value.String{Text: text, Quoted: x.Quoted}, nil
	case *ast.ListExpr:
		return e.evalListExpr(x)
	case *ast.MapExpr:
		return e.evalMapExpr(x)
	case *ast.VariableExpr:
		v, ok := e.Environment.Get(x.Name, x.Namespace)
		if !ok {
			return nil, errs.NewScriptError("Undefined variable.")
		}
		return v, nil
	case *ast.BinaryOp:
		return e.evalBinaryOp(x)
	case *ast.UnaryOp:
		return e.evalUnaryOp(x)
	case *ast.ParenExpr:
		return e.evalExpr(x.Inner)
	case *ast.FunctionCallExpr:
		return e.evalFunctionCall(x)
	case *ast.IfExpr:
		cond, err := e.evalExpr(x.Condition)
		if err != nil {
			return nil, err
		}
		if cond.Truthy() {
			return e.evalExpr(x.IfTrue)
		}
		return e.evalExpr(x.IfFalse)
	case *ast.SelectorExpr, *ast.ParentSelectorRef:
		if e.currentSelector == nil {
			return value.TheNull, nil
		}
		return value.String{Text: e.currentSelector.String(), Quoted: false}, nil
	case *ast.FunctionRefExpr:
		return value.Function{Name: x.Name, Callable: e.resolveCallableRef(x.Name)}, nil
	default:
		return nil, errs.NewScriptError("unsupported expression %T", expr)
	}
}

func (e *Evaluator) resolveCallableRef(name string) Callable {
	if c, ok := e.Environment.GetFunction(name, ""); ok {
		if callable, ok := c.(Callable); ok {
			return callable
		}
	}
	if bc, ok := e.builtins.lookup(name); ok {
		return bc
	}
	return &PlainCSSCallable{Name: name}
}

func (e *Evaluator) evalListExpr(x *ast.ListExpr) (value.Value, error) {
	items := make([]value.Value, 0, len(x.Items))
	for _, it := range x.Items {
		v, err := e.evalExpr(it)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	sep := value.SepSpace
	if x.Separator == "comma" {
		sep = value.SepComma
	}
	return value.List{Items: items, Separator: sep, Bracketed: x.Bracketed}, nil
}

func (e *Evaluator) evalMapExpr(x *ast.MapExpr) (value.Value, error) {
	m := value.NewMap()
	for i := range x.Keys {
		k, err := e.evalExpr(x.Keys[i])
		if err != nil {
			return nil, err
		}
		v, err := e.evalExpr(x.Values[i])
		if err != nil {
			return nil, err
		}
		m = m.Set(k, v)
	}
	return m, nil
}

func (e *Evaluator) evalBinaryOp(x *ast.BinaryOp) (value.Value, error) {
	// and/or short-circuit, matching Sass's lazy boolean operators (spec
	// 4.1); every other operator evaluates both sides eagerly.
	if x.Op == "and" {
		l, err := e.evalExpr(x.Left)
		if err != nil {
			return nil, err
		}
		if !l.Truthy() {
			return l, nil
		}
		return e.evalExpr(x.Right)
	}
	if x.Op == "or" {
		l, err := e.evalExpr(x.Left)
		if err != nil {
			return nil, err
		}
		if l.Truthy() {
			return l, nil
		}
		return e.evalExpr(x.Right)
	}

	l, err := e.evalExpr(x.Left)
	if err != nil {
		return nil, err
	}
	r, err := e.evalExpr(x.Right)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case "+":
		return value.Add(l, r)
	case "-":
		return value.Sub(l, r)
	case "*":
		return value.Mul(l, r)
	case "/":
		return value.Div(l, r)
	case "%":
		return value.Mod(l, r)
	case "<", "<=", ">", ">=":
		return value.Compare(x.Op, l, r)
	case "==":
		return value.Bool(value.EqualValues(l, r)), nil
	case "!=":
		return value.Bool(!value.EqualValues(l, r)), nil
	default:
		return nil, errs.NewScriptError("unknown binary operator %q", x.Op)
	}
}

func (e *Evaluator) evalUnaryOp(x *ast.UnaryOp) (value.Value, error) {
	v, err := e.evalExpr(x.Operand)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case "-":
		return value.UnaryMinus(v)
	case "+":
		return value.UnaryPlus(v)
	case "not":
		return value.UnaryNot(v), nil
	case "/":
		return value.UnarySlash(v)
	default:
		return nil, errs.NewScriptError("unknown unary operator %q", x.Op)
	}
}

// evalInterpolation concatenates an interpolation's literal and evaluated
// segments (spec 4.5): evaluated expressions render via CSSText (the
// unquoted form), matching how Sass flattens #{...} into source text.
func (e *Evaluator) evalInterpolation(interp ast.Interpolation) (string, error) {
	if interp.IsPlain() {
		return interp.Literals[0], nil
	}
	var out string
	for i, expr := range interp.Expressions {
		out += interp.Literals[i]
		v, err := e.evalExpr(expr)
		if err != nil {
			return "", err
		}
		out += v.CSSText()
	}
	out += interp.Literals[len(interp.Literals)-1]
	return out, nil
}
