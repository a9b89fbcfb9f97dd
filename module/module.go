// Package module implements module composition (spec 4.6): canonicalizing
// URLs, loading stylesheets once, executing them to Modules, composing
// modules topologically, and propagating @forward configurations.
//
// Grounded on the teacher's import_manager.go/import_sequencer.go
// (toakleaf-less.go less_go), generalized from LESS's single-namespace
// import model (every import just splices rules into the current scope)
// to Sass's namespaced @use/@forward module graph with per-module
// exports and configuration.
package module

import (
	"github.com/sasscore/sasscore/css"
	"github.com/sasscore/sasscore/extend"
	"github.com/sasscore/sasscore/value"
)

// Module is an evaluated stylesheet exported under a namespace (spec 3).
type Module struct {
	CanonicalURL string
	CSS          *css.Stylesheet
	Extender     *extend.Extender

	Variables map[string]value.Value
	Functions map[string]any
	Mixins    map[string]any

	Upstream []*Module

	TransitivelyContainsCSS        bool
	TransitivelyContainsExtensions bool
}

func New(canonicalURL string) *Module {
	return &Module{
		CanonicalURL: canonicalURL,
		Variables:    map[string]value.Value{},
		Functions:    map[string]any{},
		Mixins:       map[string]any{},
	}
}

// Variable, Function, Mixin, SetVariable implement env.ModuleNamespace so
// a loaded Module can be registered directly as a namespace target for
// $mod.$name lookups (spec 4.2, 4.6).
func (m *Module) Variable(name string) (value.Value, bool) {
	v, ok := m.Variables[name]
	return v, ok
}

func (m *Module) Function(name string) (any, bool) {
	f, ok := m.Functions[name]
	return f, ok
}

func (m *Module) Mixin(name string) (any, bool) {
	mx, ok := m.Mixins[name]
	return mx, ok
}

// SetVariable implements a namespaced assignment ($mod.$name: ...).
// It only requires that the target variable already exists; neither
// SetVariable nor its caller (env's namespaced Set) checks how the
// variable was declared in the target module.
func (m *Module) SetVariable(name string, v value.Value) bool {
	if _, ok := m.Variables[name]; !ok {
		return false
	}
	m.Variables[name] = v
	return true
}

// RecomputeFlags recomputes the two transitively_contains_* flags (spec
// 3) from this module's own output plus its upstream modules; callers
// invoke it once CSS, Extender, and Upstream are all populated.
func (m *Module) RecomputeFlags() { m.recomputeFlags() }

// recomputeFlags recomputes the two transitively_contains_* flags
// (spec 3) from this module's own output plus its upstream modules,
// called after Upstream is populated.
func (m *Module) recomputeFlags() {
	m.TransitivelyContainsCSS = len(m.CSS.Children()) > 0
	m.TransitivelyContainsExtensions = m.Extender != nil && m.Extender.HasOwnExtensions()
	for _, up := range m.Upstream {
		if up.TransitivelyContainsCSS {
			m.TransitivelyContainsCSS = true
		}
		if up.TransitivelyContainsExtensions {
			m.TransitivelyContainsExtensions = true
		}
	}
}
