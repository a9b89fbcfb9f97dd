package eval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sasscore/sasscore/ast"
	"github.com/sasscore/sasscore/css"
)

func TestRunComposesUsedModuleCSSBeforeRootCSS(t *testing.T) {
	imp := &fakeImporter{sheets: map[string]*ast.Stylesheet{
		"lib": {Body: []ast.Statement{
			&ast.StyleRule{Selector: plainInterp(".lib"), Body: []ast.Statement{
				&ast.Declaration{Name: plainInterp("color"), Value: str("blue", true)},
			}},
		}},
	}}
	e := New(Options{Importer: imp})

	root := &ast.Stylesheet{URI: "root", Body: []ast.Statement{
		&ast.UseRule{URL: "lib", Namespace: "*"},
		&ast.StyleRule{Selector: plainInterp(".root"), Body: []ast.Statement{
			&ast.Declaration{Name: plainInterp("color"), Value: str("red", true)},
		}},
	}}

	result, err := e.Run(imp, root)
	require.NoError(t, err)
	require.Len(t, result.Stylesheet.Children(), 2)

	lib, ok := result.Stylesheet.Children()[0].(*css.StyleRule)
	require.True(t, ok)
	require.Equal(t, ".lib", lib.Selector)

	own, ok := result.Stylesheet.Children()[1].(*css.StyleRule)
	require.True(t, ok)
	require.Equal(t, ".root", own.Selector)
}

func TestRunWithoutUseReturnsOwnCSSUnchanged(t *testing.T) {
	e := newTestEvaluator()
	root := &ast.Stylesheet{URI: "root", Body: []ast.Statement{
		&ast.StyleRule{Selector: plainInterp(".a"), Body: []ast.Statement{
			&ast.Declaration{Name: plainInterp("color"), Value: str("red", true)},
		}},
	}}
	result, err := e.Run(&fakeImporter{sheets: map[string]*ast.Stylesheet{}}, root)
	require.NoError(t, err)
	require.Len(t, result.Stylesheet.Children(), 1)
}

func TestExecuteModuleErrorsOnLeftoverConfigurationKey(t *testing.T) {
	imp := &fakeImporter{sheets: map[string]*ast.Stylesheet{
		"lib": {Body: []ast.Statement{
			&ast.VariableDecl{Name: "used", Value: num(1, ""), Default: true},
		}},
	}}
	e := New(Options{Importer: imp})

	root := &ast.Stylesheet{URI: "root", Body: []ast.Statement{
		&ast.UseRule{URL: "lib", Namespace: "*", Configuration: []ast.ConfigEntry{
			{Name: "used", Value: num(2, "")},
			{Name: "unread", Value: num(3, "")},
		}},
	}}

	_, err := e.Run(imp, root)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unread")
}

func TestExecuteModuleAcceptsFullyConsumedConfiguration(t *testing.T) {
	imp := &fakeImporter{sheets: map[string]*ast.Stylesheet{
		"lib": {Body: []ast.Statement{
			&ast.VariableDecl{Name: "used", Value: num(1, ""), Default: true},
		}},
	}}
	e := New(Options{Importer: imp})

	root := &ast.Stylesheet{URI: "root", Body: []ast.Statement{
		&ast.UseRule{URL: "lib", Namespace: "*", Configuration: []ast.ConfigEntry{
			{Name: "used", Value: num(2, "")},
		}},
	}}

	_, err := e.Run(imp, root)
	require.NoError(t, err)
}

func TestInvokeUserFunctionErrorsOnUnconsumedKeywordArgument(t *testing.T) {
	e := newTestEvaluator()
	uc := &UserDefinedCallable{
		Name:      "f",
		Arguments: []ast.Argument{{Name: "a"}, {Name: "rest", Rest: true}},
		Body:      []ast.Statement{&ast.ReturnRule{Value: variable("a")}},
		Closure:   e.Environment.Closure(),
	}
	_, err := e.invokeUserFunction(uc, callSite{
		Name:       "f",
		Positional: []ast.Expression{num(1, "")},
		Named:      map[string]ast.Expression{"extra": num(2, "")},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "extra")
}

func TestInvokeUserFunctionAllowsKeywordArgumentReadViaKeywords(t *testing.T) {
	e := newTestEvaluator()
	uc := &UserDefinedCallable{
		Name:      "f",
		Arguments: []ast.Argument{{Name: "a"}, {Name: "rest", Rest: true}},
		Body: []ast.Statement{
			&ast.VariableDecl{Name: "k", Value: &ast.FunctionCallExpr{Name: "keywords", Positional: []ast.Expression{variable("rest")}}},
			&ast.ReturnRule{Value: variable("a")},
		},
		Closure: e.Environment.Closure(),
	}
	_, err := e.invokeUserFunction(uc, callSite{
		Name:       "f",
		Positional: []ast.Expression{num(1, "")},
		Named:      map[string]ast.Expression{"extra": num(2, "")},
	})
	require.NoError(t, err)
}
