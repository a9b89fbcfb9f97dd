package module

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sasscore/sasscore/ast"
	"github.com/sasscore/sasscore/css"
	"github.com/sasscore/sasscore/errs"
	"github.com/sasscore/sasscore/extend"
)

type fakeImporter struct {
	sheets map[string]*ast.Stylesheet
}

func (f *fakeImporter) Load(url, base string, forImport bool) (string, string, *ast.Stylesheet, bool, error) {
	s, ok := f.sheets[url]
	return "fake", url, s, ok, nil
}

func (f *fakeImporter) Humanize(canonicalURL string) string { return canonicalURL }

func newTestModule(url string) *Module {
	m := New(url)
	m.CSS = css.NewStylesheet(errs.Span{})
	m.Extender = extend.New()
	return m
}

func TestLoadModuleCachesByCanonicalURL(t *testing.T) {
	imp := &fakeImporter{sheets: map[string]*ast.Stylesheet{"foo": {}}}
	calls := 0
	loader := NewLoader(imp, func(importerID, canonical string, s *ast.Stylesheet, cfg *Configuration) (*Module, error) {
		calls++
		return newTestModule(canonical), nil
	})

	m1, err := loader.LoadModule("foo", errs.Span{}, "", EmptyConfiguration(), false, false)
	require.NoError(t, err)
	m2, err := loader.LoadModule("foo", errs.Span{}, "", EmptyConfiguration(), false, false)
	require.NoError(t, err)
	require.Same(t, m1, m2)
	require.Equal(t, 1, calls)
}

func TestLoadModuleNonImplicitConfigOnCachedModuleErrors(t *testing.T) {
	imp := &fakeImporter{sheets: map[string]*ast.Stylesheet{"foo": {}}}
	loader := NewLoader(imp, func(importerID, canonical string, s *ast.Stylesheet, cfg *Configuration) (*Module, error) {
		return newTestModule(canonical), nil
	})
	_, err := loader.LoadModule("foo", errs.Span{}, "", EmptyConfiguration(), false, false)
	require.NoError(t, err)

	nonImplicit := NewConfiguration(map[string]*ConfigEntry{"x": {}})
	_, err = loader.LoadModule("foo", errs.Span{}, "", nonImplicit, false, false)
	require.Error(t, err)
}

func TestLoadModuleNotFound(t *testing.T) {
	imp := &fakeImporter{sheets: map[string]*ast.Stylesheet{}}
	loader := NewLoader(imp, func(importerID, canonical string, s *ast.Stylesheet, cfg *Configuration) (*Module, error) {
		return newTestModule(canonical), nil
	})
	_, err := loader.LoadModule("missing", errs.Span{}, "", EmptyConfiguration(), false, false)
	require.Error(t, err)
}

func TestComposeDependencyFirstOrder(t *testing.T) {
	base := newTestModule("base")
	mid := newTestModule("mid")
	mid.Upstream = []*Module{base}
	root := newTestModule("root")
	root.Upstream = []*Module{mid}

	order := topoOrder(root)
	require.Equal(t, []*Module{base, mid, root}, order)
}

func TestComposeConcatenatesCSSInDependencyOrder(t *testing.T) {
	base := newTestModule("base")
	css.AddChild(base.CSS, css.NewStyleRule(errs.Span{}, ".base"))
	base.RecomputeFlags()

	root := newTestModule("root")
	css.AddChild(root.CSS, css.NewStyleRule(errs.Span{}, ".root"))
	root.Upstream = []*Module{base}
	root.RecomputeFlags()

	out, err := Compose(root)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, ".base", out[0].(*css.StyleRule).Selector)
	require.Equal(t, ".root", out[1].(*css.StyleRule).Selector)
}

func TestComposeWithoutUpstreamCSSJustFinalizesRoot(t *testing.T) {
	root := newTestModule("root")
	css.AddChild(root.CSS, css.NewStyleRule(errs.Span{}, ".root"))
	dep := newTestModule("dep") // upstream, but contributes no CSS of its own
	root.Upstream = []*Module{dep}
	root.RecomputeFlags()

	out, err := Compose(root)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, ".root", out[0].(*css.StyleRule).Selector)
}
