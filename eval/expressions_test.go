package eval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sasscore/sasscore/ast"
	"github.com/sasscore/sasscore/env"
	"github.com/sasscore/sasscore/value"
)

func TestEvalArithmetic(t *testing.T) {
	e := newTestEvaluator()
	v, err := e.EvaluateExpression(&ast.BinaryOp{Op: "+", Left: num(1, "px"), Right: num(2, "px")})
	require.NoError(t, err)
	require.Equal(t, "3px", v.CSSText())
}

func TestEvalComparisonAndEquality(t *testing.T) {
	e := newTestEvaluator()
	v, err := e.EvaluateExpression(&ast.BinaryOp{Op: "==", Left: num(1, ""), Right: num(1, "")})
	require.NoError(t, err)
	require.Equal(t, value.Bool(true), v)

	v, err = e.EvaluateExpression(&ast.BinaryOp{Op: "<", Left: num(1, ""), Right: num(2, "")})
	require.NoError(t, err)
	require.Equal(t, value.Bool(true), v)
}

func TestEvalAndOrShortCircuit(t *testing.T) {
	e := newTestEvaluator()
	// `false and <undefined var>` must not evaluate the right side.
	v, err := e.EvaluateExpression(&ast.BinaryOp{Op: "and", Left: &ast.BoolLiteral{Value: false}, Right: variable("nope")})
	require.NoError(t, err)
	require.Equal(t, value.Bool(false), v)

	v, err = e.EvaluateExpression(&ast.BinaryOp{Op: "or", Left: &ast.BoolLiteral{Value: true}, Right: variable("nope")})
	require.NoError(t, err)
	require.Equal(t, value.Bool(true), v)
}

func TestEvalUnaryNot(t *testing.T) {
	e := newTestEvaluator()
	v, err := e.EvaluateExpression(&ast.UnaryOp{Op: "not", Operand: &ast.BoolLiteral{Value: false}})
	require.NoError(t, err)
	require.Equal(t, value.Bool(true), v)
}

func TestEvalListExprSeparatorAndBracket(t *testing.T) {
	e := newTestEvaluator()
	v, err := e.EvaluateExpression(&ast.ListExpr{
		Items:     []ast.Expression{num(1, ""), num(2, "")},
		Separator: "comma",
		Bracketed: true,
	})
	require.NoError(t, err)
	l, ok := v.(value.List)
	require.True(t, ok)
	require.Equal(t, value.SepComma, l.Separator)
	require.True(t, l.Bracketed)
	require.Len(t, l.Items, 2)
}

func TestEvalMapExprPreservesInsertionOrder(t *testing.T) {
	e := newTestEvaluator()
	v, err := e.EvaluateExpression(&ast.MapExpr{
		Keys:   []ast.Expression{str("b", true), str("a", true)},
		Values: []ast.Expression{num(2, ""), num(1, "")},
	})
	require.NoError(t, err)
	m, ok := v.(value.Map)
	require.True(t, ok)
	require.Equal(t, []string{"b", "a"}, []string{m.Keys[0].(value.String).Text, m.Keys[1].(value.String).Text})
}

func TestEvalVariableUndefinedErrors(t *testing.T) {
	e := newTestEvaluator()
	_, err := e.EvaluateExpression(variable("missing"))
	require.Error(t, err)
}

func TestEvalInterpolationConcatenatesLiteralAndExpressionSegments(t *testing.T) {
	e := newTestEvaluator()
	e.Environment.Set("x", value.NewNumber(3, "px"), nil, env.SetOptions{})
	interp := ast.Interpolation{
		Literals:    []string{"width: ", ";"},
		Expressions: []ast.Expression{variable("x")},
	}
	out, err := e.evalInterpolation(interp)
	require.NoError(t, err)
	require.Equal(t, "width: 3px;", out)
}

func TestEvalIfExprTernary(t *testing.T) {
	e := newTestEvaluator()
	v, err := e.EvaluateExpression(&ast.IfExpr{
		Condition: &ast.BoolLiteral{Value: true},
		IfTrue:    num(1, ""),
		IfFalse:   num(2, ""),
	})
	require.NoError(t, err)
	require.Equal(t, "1", v.CSSText())
}
