package eval

import (
	"github.com/sasscore/sasscore/ast"
	"github.com/sasscore/sasscore/errs"
)

// fakeImporter is the table-driven test double used throughout this
// package, mirroring module/loader_test.go's fakeImporter.
type fakeImporter struct {
	sheets map[string]*ast.Stylesheet
}

func (f *fakeImporter) Load(url, base string, forImport bool) (string, string, *ast.Stylesheet, bool, error) {
	s, ok := f.sheets[url]
	return "fake", url, s, ok, nil
}

func (f *fakeImporter) Humanize(canonicalURL string) string { return canonicalURL }

func newTestEvaluator() *Evaluator {
	imp := &fakeImporter{sheets: map[string]*ast.Stylesheet{}}
	return New(Options{Importer: imp})
}

func num(v float64, unit string) *ast.NumberLiteral {
	return &ast.NumberLiteral{Value: v, Unit: unit}
}

func str(text string, quoted bool) *ast.StringLiteral {
	return &ast.StringLiteral{Text: plainInterp(text), Quoted: quoted}
}

func plainInterp(text string) ast.Interpolation {
	return ast.Interpolation{Literals: []string{text}}
}

func variable(name string) *ast.VariableExpr { return &ast.VariableExpr{Name: name} }

func noSpan() errs.Span { return errs.Span{} }
