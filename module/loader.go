package module

import (
	"github.com/sasscore/sasscore/ast"
	"github.com/sasscore/sasscore/css"
	"github.com/sasscore/sasscore/errs"
	"github.com/sasscore/sasscore/importer"
)

// Executor evaluates a freshly-parsed stylesheet into a Module: fresh
// output tree, fresh extender, fresh environment, per spec 4.6 step 5.
// Supplied by the eval package (which depends on module, so module
// cannot depend back on eval) rather than implemented here.
type Executor func(importerID, canonicalURL string, stylesheet *ast.Stylesheet, config *Configuration) (*Module, error)

// Loader implements spec 4.6's loadModule algorithm: canonicalize,
// detect cycles, cache by canonical URL, execute once.
type Loader struct {
	Importer importer.Importer
	Execute  Executor

	builtins map[string]*Module
	cache    map[string]*Module
	active   map[string]bool
}

func NewLoader(imp importer.Importer, exec Executor) *Loader {
	return &Loader{
		Importer: imp,
		Execute:  exec,
		builtins: map[string]*Module{},
		cache:    map[string]*Module{},
		active:   map[string]bool{},
	}
}

// RegisterBuiltin registers a built-in module (e.g. "sass:math") that
// bypasses the importer entirely (spec 4.6 step 1).
func (l *Loader) RegisterBuiltin(url string, mod *Module) { l.builtins[url] = mod }

// LoadModule implements spec 4.6's five-step algorithm.
func (l *Loader) LoadModule(url string, callSpan errs.Span, baseURL string, config *Configuration, forImport, namesInErrors bool) (*Module, error) {
	if builtin, ok := l.builtins[url]; ok {
		if config != nil && !config.Implicit {
			return nil, errs.NewScriptError("Built-in modules can't be configured.")
		}
		return builtin, nil
	}

	importerID, canonical, stylesheet, ok, err := l.Importer.Load(url, baseURL, forImport)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.NewScriptError("Can't find stylesheet to import.")
	}

	if l.active[canonical] {
		msg := "Module loop: this module is already being loaded."
		if namesInErrors {
			msg += " " + canonical
		}
		return nil, errs.NewScriptError(msg)
	}

	if cached, ok := l.cache[canonical]; ok {
		if config != nil && !config.Implicit {
			return nil, errs.NewScriptError("%s was already loaded, so it can't be configured using \"with\".", canonical)
		}
		return cached, nil
	}

	l.active[canonical] = true
	defer delete(l.active, canonical)

	mod, err := l.Execute(importerID, canonical, stylesheet, config)
	if err != nil {
		return nil, err
	}
	l.cache[canonical] = mod
	return mod, nil
}

// Compose implements spec 4.6's `_combine_css`: if root has no upstream
// module that itself contains CSS, this just finalizes root's extender
// and returns its own children. Otherwise it computes a dependency-first
// topological order, propagates extensions downstream-to-upstream,
// finalizes every module's extender, and concatenates each module's CSS
// in that order (so an upstream @use's output precedes the CSS of the
// module that used it, matching ordinary source order for imports
// placed at the top of a file).
func Compose(root *Module) ([]css.Node, error) {
	hasUpstreamCSS := false
	for _, up := range root.Upstream {
		if up.TransitivelyContainsCSS {
			hasUpstreamCSS = true
			break
		}
	}
	if !hasUpstreamCSS {
		if err := root.Extender.Finalize(); err != nil {
			return nil, err
		}
		return root.CSS.Children(), nil
	}

	order := topoOrder(root)

	for i := len(order) - 1; i >= 0; i-- {
		m := order[i]
		for _, up := range m.Upstream {
			up.Extender.AddExtensions(m.Extender)
		}
	}

	for _, m := range order {
		if err := m.Extender.Finalize(); err != nil {
			return nil, err
		}
	}

	var out []css.Node
	for _, m := range order {
		out = append(out, m.CSS.Children()...)
	}
	return out, nil
}

// topoOrder returns modules in dependency-first order (every module
// appears after all of its Upstream modules), the order Compose needs to
// both propagate extensions and concatenate CSS correctly.
func topoOrder(root *Module) []*Module {
	visited := map[*Module]bool{}
	var order []*Module
	var visit func(*Module)
	visit = func(m *Module) {
		if visited[m] {
			return
		}
		visited[m] = true
		for _, up := range m.Upstream {
			visit(up)
		}
		order = append(order, m)
	}
	visit(root)
	return order
}
