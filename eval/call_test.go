package eval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sasscore/sasscore/ast"
	"github.com/sasscore/sasscore/value"
)

func TestEvalArgumentsBindsPositionalAndDefault(t *testing.T) {
	e := newTestEvaluator()
	params := []ast.Argument{
		{Name: "a"},
		{Name: "b", Default: num(10, "")},
	}
	bound, err := e.evalArguments(params, callSite{
		Name:       "f",
		Positional: []ast.Expression{num(1, "")},
	})
	require.NoError(t, err)
	require.Equal(t, "1", bound.byName["a"].CSSText())
	require.Equal(t, "10", bound.byName["b"].CSSText())
}

func TestEvalArgumentsNamedOverridesDefault(t *testing.T) {
	e := newTestEvaluator()
	params := []ast.Argument{{Name: "a", Default: num(10, "")}}
	bound, err := e.evalArguments(params, callSite{
		Name:  "f",
		Named: map[string]ast.Expression{"a": num(5, "")},
	})
	require.NoError(t, err)
	require.Equal(t, "5", bound.byName["a"].CSSText())
}

func TestEvalArgumentsMissingRequiredErrors(t *testing.T) {
	e := newTestEvaluator()
	params := []ast.Argument{{Name: "a"}}
	_, err := e.evalArguments(params, callSite{Name: "f"})
	require.Error(t, err)
}

func TestEvalArgumentsDuplicatePositionalAndNamedErrors(t *testing.T) {
	e := newTestEvaluator()
	params := []ast.Argument{{Name: "a"}}
	_, err := e.evalArguments(params, callSite{
		Name:       "f",
		Positional: []ast.Expression{num(1, "")},
		Named:      map[string]ast.Expression{"a": num(2, "")},
	})
	require.Error(t, err)
}

func TestEvalArgumentsTooManyPositionalErrors(t *testing.T) {
	e := newTestEvaluator()
	params := []ast.Argument{{Name: "a"}}
	_, err := e.evalArguments(params, callSite{
		Name:       "f",
		Positional: []ast.Expression{num(1, ""), num(2, "")},
	})
	require.Error(t, err)
}

func TestEvalArgumentsUnknownNamedErrors(t *testing.T) {
	e := newTestEvaluator()
	params := []ast.Argument{{Name: "a"}}
	_, err := e.evalArguments(params, callSite{
		Name:       "f",
		Positional: []ast.Expression{num(1, "")},
		Named:      map[string]ast.Expression{"z": num(2, "")},
	})
	require.Error(t, err)
}

func TestEvalArgumentsRestParamPacksRemainder(t *testing.T) {
	e := newTestEvaluator()
	params := []ast.Argument{{Name: "a"}, {Name: "rest", Rest: true}}
	bound, err := e.evalArguments(params, callSite{
		Name:       "f",
		Positional: []ast.Expression{num(1, ""), num(2, ""), num(3, "")},
		Named:      map[string]ast.Expression{"extra": num(4, "")},
	})
	require.NoError(t, err)
	al, ok := bound.byName["rest"].(*value.ArgumentList)
	require.True(t, ok)
	require.Len(t, al.Positional, 2)
	require.Equal(t, "4", al.Named["extra"].CSSText())
}

func TestInvokeUserFunctionReturnsValue(t *testing.T) {
	e := newTestEvaluator()
	uc := &UserDefinedCallable{
		Name:      "double",
		Arguments: []ast.Argument{{Name: "x"}},
		Body:      []ast.Statement{&ast.ReturnRule{Value: &ast.BinaryOp{Op: "*", Left: variable("x"), Right: num(2, "")}}},
		Closure:   e.Environment.Closure(),
	}
	v, err := e.invokeUserFunction(uc, callSite{Name: "double", Positional: []ast.Expression{num(21, "")}})
	require.NoError(t, err)
	require.Equal(t, "42", v.CSSText())
}

func TestInvokeUserFunctionWithoutReturnErrors(t *testing.T) {
	e := newTestEvaluator()
	uc := &UserDefinedCallable{Name: "noop", Closure: e.Environment.Closure()}
	_, err := e.invokeUserFunction(uc, callSite{Name: "noop"})
	require.Error(t, err)
}

func TestInvokeBuiltinDispatchesToSyncFunc(t *testing.T) {
	e := newTestEvaluator()
	bc := &BuiltinCallable{Name: "identity", Sync: func(args []value.Value, named map[string]value.Value) (value.Value, error) {
		return args[0], nil
	}}
	v, err := e.invokeBuiltin(bc, callSite{Name: "identity", Positional: []ast.Expression{num(7, "")}})
	require.NoError(t, err)
	require.Equal(t, "7", v.CSSText())
}

func TestEvalFunctionCallFallsBackToPlainCSS(t *testing.T) {
	e := newTestEvaluator()
	v, err := e.EvaluateExpression(&ast.FunctionCallExpr{Name: "translateX", Positional: []ast.Expression{num(10, "px")}})
	require.NoError(t, err)
	require.Equal(t, "translateX(10px)", v.CSSText())
}

func TestEvalFunctionCallUsesUserDefinedOverBuiltin(t *testing.T) {
	e := newTestEvaluator()
	e.Environment.SetFunction("double", &UserDefinedCallable{
		Name:      "double",
		Arguments: []ast.Argument{{Name: "x"}},
		Body:      []ast.Statement{&ast.ReturnRule{Value: &ast.BinaryOp{Op: "*", Left: variable("x"), Right: num(2, "")}}},
		Closure:   e.Environment.Closure(),
	})
	v, err := e.EvaluateExpression(&ast.FunctionCallExpr{Name: "double", Positional: []ast.Expression{num(4, "")}})
	require.NoError(t, err)
	require.Equal(t, "8", v.CSSText())
}
