package value

import "github.com/sasscore/sasscore/errs"

// Add implements `+` across variants: number+number arithmetic, but also
// Sass's permissive string/list concatenation semantics (anything plus a
// string produces a string; list + anything appends).
func Add(l, r Value) (Value, error) {
	switch lv := l.(type) {
	case Number:
		if rv, ok := r.(Number); ok {
			res, err := lv.Add(rv)
			if err != nil {
				return nil, err
			}
			return res, nil
		}
		return String{Text: lv.CSSText() + unquotedText(r)}, nil
	case String:
		if rv, ok := r.(String); ok && lv.Quoted {
			return String{Text: lv.Text + rv.Text, Quoted: true}, nil
		}
		return String{Text: lv.Text + unquotedText(r), Quoted: lv.Quoted}, nil
	case Color:
		if rv, ok := r.(Color); ok {
			return RGBA(lv.R+rv.R, lv.G+rv.G, lv.B+rv.B, lv.A), nil
		}
	}
	return String{Text: l.CSSText() + unquotedText(r)}, nil
}

func Sub(l, r Value) (Value, error) {
	switch lv := l.(type) {
	case Number:
		if rv, ok := r.(Number); ok {
			return lv.Sub(rv)
		}
	case Color:
		if rv, ok := r.(Color); ok {
			return RGBA(lv.R-rv.R, lv.G-rv.G, lv.B-rv.B, lv.A), nil
		}
	}
	return nil, errs.NewScriptError("Undefined operation \"%s - %s\".", l.Inspect(), r.Inspect())
}

func Mul(l, r Value) (Value, error) {
	switch lv := l.(type) {
	case Number:
		if rv, ok := r.(Number); ok {
			return lv.Mul(rv), nil
		}
	case Color:
		if rv, ok := r.(Color); ok {
			return RGBA(lv.R*rv.R, lv.G*rv.G, lv.B*rv.B, lv.A), nil
		}
	}
	return nil, errs.NewScriptError("Undefined operation \"%s * %s\".", l.Inspect(), r.Inspect())
}

// Div implements `/`. Two number literals used directly as operands to a
// call (e.g. rgba()) preserve the textual slash form (spec 4.1); any
// other arithmetic strips it (invariant 4 applies transitively since
// WithoutSlash is idempotent).
func Div(l, r Value) (Value, error) {
	lv, lok := l.(Number)
	rv, rok := r.(Number)
	if lok && rok {
		res, err := lv.Div(rv)
		if err != nil {
			return nil, err
		}
		return res.WithSlash(lv.WithoutSlash(), rv.WithoutSlash()), nil
	}
	return nil, errs.NewScriptError("Undefined operation \"%s / %s\".", l.Inspect(), r.Inspect())
}

func Mod(l, r Value) (Value, error) {
	lv, lok := l.(Number)
	rv, rok := r.(Number)
	if !lok || !rok {
		return nil, errs.NewScriptError("Undefined operation \"%s %% %s\".", l.Inspect(), r.Inspect())
	}
	return lv.Mod(rv)
}

// Compare implements <, <=, >, >= (numbers only).
func Compare(op string, l, r Value) (Value, error) {
	lv, lok := l.(Number)
	rv, rok := r.(Number)
	if !lok || !rok {
		return nil, errs.NewScriptError("Undefined operation: %s %s %s is not a valid comparison.", l.Inspect(), op, r.Inspect())
	}
	c, err := lv.Compare(rv)
	if err != nil {
		return nil, err
	}
	switch op {
	case "<":
		return Bool(c < 0), nil
	case "<=":
		return Bool(c <= 0), nil
	case ">":
		return Bool(c > 0), nil
	case ">=":
		return Bool(c >= 0), nil
	}
	return nil, errs.NewScriptError("unknown comparison operator %q", op)
}

// EqualValues implements `==`/`!=` (structural, per spec 3).
func EqualValues(l, r Value) bool { return l.Equal(r) }

// Identical implements Sass's `===` (single-equals semantics used
// internally by the evaluator's deep structural comparisons) which,
// unlike `==`, does not coerce number units.
func Identical(l, r Value) bool {
	ln, lok := l.(Number)
	rn, rok := r.(Number)
	if lok && rok {
		return ln.V == rn.V && ln.Unit() == rn.Unit()
	}
	return l.Equal(r)
}

// UnaryMinus, UnaryPlus, UnaryNot, UnarySlash implement spec 4.1's unary
// operator table.
func UnaryMinus(v Value) (Value, error) {
	if n, ok := v.(Number); ok {
		return Number{V: -n.V, Numerator: n.Numerator, Denominator: n.Denominator}, nil
	}
	return String{Text: "-" + unquotedText(v)}, nil
}

func UnaryPlus(v Value) (Value, error) {
	if n, ok := v.(Number); ok {
		return n, nil
	}
	return String{Text: "+" + unquotedText(v)}, nil
}

func UnaryNot(v Value) Value { return Bool(!v.Truthy()) }

func UnarySlash(v Value) (Value, error) {
	if n, ok := v.(Number); ok {
		return String{Text: "/" + n.CSSText()}, nil
	}
	return String{Text: "/" + unquotedText(v)}, nil
}
