package eval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sasscore/sasscore/ast"
	"github.com/sasscore/sasscore/css"
	"github.com/sasscore/sasscore/env"
	"github.com/sasscore/sasscore/value"
)

func runRoot(t *testing.T, e *Evaluator, body []ast.Statement) css.Node {
	t.Helper()
	out, err := e.runStylesheet("root", "test", &ast.Stylesheet{Body: body})
	require.NoError(t, err)
	return out
}

func TestExecVariableDeclDefaultIsNoopWhenAlreadySet(t *testing.T) {
	e := newTestEvaluator()
	e.Environment.Set("x", value.NewNumber(1, ""), nil, env.SetOptions{})
	err := e.execVariableDecl(&ast.VariableDecl{Name: "x", Value: num(2, ""), Default: true})
	require.NoError(t, err)
	v, _ := e.Environment.Get("x", "")
	require.Equal(t, "1", v.CSSText())
}

func TestExecVariableDeclGlobalWritesGlobals(t *testing.T) {
	e := newTestEvaluator()
	err := e.Environment.Scope(false, true, func() error {
		return e.execVariableDecl(&ast.VariableDecl{Name: "g", Value: num(5, ""), Global: true})
	})
	require.NoError(t, err)
	v, ok := e.Environment.Get("g", "")
	require.True(t, ok)
	require.Equal(t, "5", v.CSSText())
}

func TestExecStyleRuleEmitsDeclarationChild(t *testing.T) {
	e := newTestEvaluator()
	root := runRoot(t, e, []ast.Statement{
		&ast.StyleRule{
			Selector: plainInterp(".a"),
			Body: []ast.Statement{
				&ast.Declaration{Name: plainInterp("color"), Value: str("red", true)},
			},
		},
	})
	require.Len(t, root.Children(), 1)
	rule, ok := root.Children()[0].(*css.StyleRule)
	require.True(t, ok)
	require.Equal(t, ".a", rule.Selector)
	require.Len(t, rule.Children(), 1)
	decl, ok := rule.Children()[0].(*css.Declaration)
	require.True(t, ok)
	require.Equal(t, "color", decl.Name)
	require.Equal(t, "red", decl.Value)
}

func TestExecDeclarationSkipsNullValue(t *testing.T) {
	e := newTestEvaluator()
	root := runRoot(t, e, []ast.Statement{
		&ast.Declaration{Name: plainInterp("color"), Value: &ast.NullLiteral{}},
	})
	require.Empty(t, root.Children())
}

func TestExecIfPicksFirstTrueClause(t *testing.T) {
	e := newTestEvaluator()
	root := runRoot(t, e, []ast.Statement{
		&ast.StyleRule{Selector: plainInterp(".a"), Body: []ast.Statement{
			&ast.IfRule{Clauses: []ast.IfClause{
				{Condition: &ast.BoolLiteral{Value: false}, Body: []ast.Statement{
					&ast.Declaration{Name: plainInterp("a"), Value: num(1, "")},
				}},
				{Condition: nil, Body: []ast.Statement{
					&ast.Declaration{Name: plainInterp("b"), Value: num(2, "")},
				}},
			}},
		}},
	})
	rule := root.Children()[0].(*css.StyleRule)
	require.Len(t, rule.Children(), 1)
	decl := rule.Children()[0].(*css.Declaration)
	require.Equal(t, "b", decl.Name)
}

func TestExecEachDestructuresMultipleVariables(t *testing.T) {
	e := newTestEvaluator()
	pair := func(a, b float64) ast.Expression {
		return &ast.ListExpr{Items: []ast.Expression{num(a, ""), num(b, "")}, Separator: "space"}
	}
	root := runRoot(t, e, []ast.Statement{
		&ast.StyleRule{Selector: plainInterp(".a"), Body: []ast.Statement{
			&ast.EachRule{
				Variables: []string{"k", "v"},
				List:      &ast.ListExpr{Items: []ast.Expression{pair(1, 2), pair(3, 4)}, Separator: "comma"},
				Body: []ast.Statement{
					&ast.Declaration{Name: plainInterp("p"), Value: &ast.BinaryOp{Op: "+", Left: variable("k"), Right: variable("v")}},
				},
			},
		}},
	})
	rule := root.Children()[0].(*css.StyleRule)
	require.Len(t, rule.Children(), 2)
	require.Equal(t, "3", rule.Children()[0].(*css.Declaration).Value)
	require.Equal(t, "7", rule.Children()[1].(*css.Declaration).Value)
}

func TestExecForExclusiveRange(t *testing.T) {
	e := newTestEvaluator()
	var seen []string
	root := runRoot(t, e, []ast.Statement{
		&ast.StyleRule{Selector: plainInterp(".a"), Body: []ast.Statement{
			&ast.ForRule{
				Variable: "i", From: num(1, ""), To: num(4, ""), Exclusive: true,
				Body: []ast.Statement{
					&ast.Declaration{Name: plainInterp("p"), Value: variable("i")},
				},
			},
		}},
	})
	rule := root.Children()[0].(*css.StyleRule)
	for _, c := range rule.Children() {
		seen = append(seen, c.(*css.Declaration).Value)
	}
	require.Equal(t, []string{"1", "2", "3"}, seen)
}

func TestExecWhileTerminates(t *testing.T) {
	e := newTestEvaluator()
	e.Environment.Set("n", value.NewNumber(0, ""), nil, env.SetOptions{})
	root := runRoot(t, e, []ast.Statement{
		&ast.StyleRule{Selector: plainInterp(".a"), Body: []ast.Statement{
			&ast.WhileRule{
				Condition: &ast.BinaryOp{Op: "<", Left: variable("n"), Right: num(3, "")},
				Body: []ast.Statement{
					&ast.VariableDecl{Name: "n", Value: &ast.BinaryOp{Op: "+", Left: variable("n"), Right: num(1, "")}},
					&ast.Declaration{Name: plainInterp("p"), Value: variable("n")},
				},
			},
		}},
	})
	rule := root.Children()[0].(*css.StyleRule)
	require.Len(t, rule.Children(), 3)
}

func TestExecIncludeInvokesMixinAndContent(t *testing.T) {
	e := newTestEvaluator()
	e.Environment.SetMixin("m", &UserDefinedCallable{
		Name:       "m",
		IsMixin:    true,
		HasContent: true,
		Body: []ast.Statement{
			&ast.ContentRule{},
		},
		Closure: e.Environment.Closure(),
	})
	root := runRoot(t, e, []ast.Statement{
		&ast.StyleRule{Selector: plainInterp(".a"), Body: []ast.Statement{
			&ast.IncludeRule{
				Name: "m",
				Content: &ast.ContentBlock{
					Body: []ast.Statement{&ast.Declaration{Name: plainInterp("p"), Value: num(1, "")}},
				},
			},
		}},
	})
	rule := root.Children()[0].(*css.StyleRule)
	require.Len(t, rule.Children(), 1)
	require.Equal(t, "p", rule.Children()[0].(*css.Declaration).Name)
}

func TestExecIncludeUndefinedMixinErrors(t *testing.T) {
	e := newTestEvaluator()
	err := e.execInclude(&ast.IncludeRule{Name: "missing"})
	require.Error(t, err)
}

func TestExecExtendRegistersAgainstCurrentSelector(t *testing.T) {
	e := newTestEvaluator()
	_ = runRoot(t, e, []ast.Statement{
		&ast.StyleRule{Selector: plainInterp(".a"), Body: []ast.Statement{
			&ast.ExtendRule{Target: plainInterp(".b")},
		}},
	})
	require.True(t, e.extender.HasOwnExtensions())
}

func TestExecWarnAndDebugDoNotError(t *testing.T) {
	e := newTestEvaluator()
	require.NoError(t, e.execWarn(&ast.WarnRule{Value: str("careful", true)}))
	require.NoError(t, e.execDebug(&ast.DebugRule{Value: str("hi", true)}))
}

func TestExecErrorReturnsScriptError(t *testing.T) {
	e := newTestEvaluator()
	err := e.execError(&ast.ErrorRule{Value: str("boom", true)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
}

func TestDefaultNamespaceStripsLeadingUnderscoreAndExtension(t *testing.T) {
	require.Equal(t, "colors", defaultNamespace("path/_colors.scss"))
	require.Equal(t, "colors", defaultNamespace("colors"))
}

func TestAtRootExcludedDefaultsToRuleOnly(t *testing.T) {
	excluded := atRootExcluded("")
	require.True(t, excluded["rule"])
	require.False(t, excluded["media"])
}

func TestAtRootExcludedAllStripsEverything(t *testing.T) {
	excluded := atRootExcluded("(with: all)")
	require.True(t, excluded["all"])
}

func TestExecMediaRuleMergesDirectlyNestedQueries(t *testing.T) {
	e := newTestEvaluator()
	root := runRoot(t, e, []ast.Statement{
		&ast.MediaRule{Query: plainInterp("s1"), Body: []ast.Statement{
			&ast.MediaRule{Query: plainInterp("s2"), Body: []ast.Statement{
				&ast.Declaration{Name: plainInterp("color"), Value: str("red", true)},
			}},
		}},
	})
	require.Len(t, root.Children(), 1)
	media, ok := root.Children()[0].(*css.MediaRule)
	require.True(t, ok)
	require.Equal(t, "s1 and s2", media.Queries)
	require.Len(t, media.Children(), 1)
	decl, ok := media.Children()[0].(*css.Declaration)
	require.True(t, ok)
	require.Equal(t, "color", decl.Name)
}

func TestExecMediaRuleHoistsAboveEnclosingStyleRule(t *testing.T) {
	e := newTestEvaluator()
	root := runRoot(t, e, []ast.Statement{
		&ast.StyleRule{Selector: plainInterp(".a"), Body: []ast.Statement{
			&ast.MediaRule{Query: plainInterp("(min-width: 1px)"), Body: []ast.Statement{
				&ast.Declaration{Name: plainInterp("color"), Value: str("red", true)},
			}},
		}},
	})
	require.Len(t, root.Children(), 1)
	media, ok := root.Children()[0].(*css.MediaRule)
	require.True(t, ok)
	require.Equal(t, "(min-width: 1px)", media.Queries)
	require.Len(t, media.Children(), 1)
	clone, ok := media.Children()[0].(*css.StyleRule)
	require.True(t, ok)
	require.Equal(t, ".a", clone.Selector)
	require.Len(t, clone.Children(), 1)
	decl := clone.Children()[0].(*css.Declaration)
	require.Equal(t, "color", decl.Name)
}

func TestExecMediaRuleScreenWrappingStyleRuleWrappingMediaHoistsAndMerges(t *testing.T) {
	e := newTestEvaluator()
	root := runRoot(t, e, []ast.Statement{
		&ast.MediaRule{Query: plainInterp("screen"), Body: []ast.Statement{
			&ast.StyleRule{Selector: plainInterp(".a"), Body: []ast.Statement{
				&ast.MediaRule{Query: plainInterp("(min-width: 1px)"), Body: []ast.Statement{
					&ast.Declaration{Name: plainInterp("color"), Value: str("red", true)},
				}},
			}},
		}},
	})
	require.Len(t, root.Children(), 1)
	media, ok := root.Children()[0].(*css.MediaRule)
	require.True(t, ok)
	require.Equal(t, "screen and (min-width: 1px)", media.Queries)
	require.Len(t, media.Children(), 1)
	rule, ok := media.Children()[0].(*css.StyleRule)
	require.True(t, ok)
	require.Equal(t, ".a", rule.Selector)
	require.Len(t, rule.Children(), 1)
	decl := rule.Children()[0].(*css.Declaration)
	require.Equal(t, "color", decl.Name)
}
