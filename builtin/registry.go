// Package builtin gives a host the pieces needed to wire its own standard
// function library into the evaluator: an inheritable registry of named
// callables (mirroring the teacher's function_registry.go Inherit/base
// chain) and a helper that packages a set of callables into a
// *module.Module so they can be reached as `sass:math`, `sass:color`, and
// so on via Loader.RegisterBuiltin. The evaluator ships no entries of its
// own here — the standard function library's bodies are the host's
// concern (spec section 1's out-of-scope note) — only the plumbing that
// lets a host attach them.
package builtin

import (
	"strings"

	"github.com/sasscore/sasscore/eval"
	"github.com/sasscore/sasscore/module"
)

// Registry is an inheritable, case-insensitive table of callables,
// grounded on the teacher's Registry/makeRegistry/Inherit chain
// (toakleaf-less.go less_go/function_registry.go), generalized from
// LESS's single untyped function table to Sass's typed BuiltinCallable.
type Registry struct {
	data map[string]*eval.BuiltinCallable
	base *Registry
}

func New() *Registry {
	return &Registry{data: map[string]*eval.BuiltinCallable{}}
}

// Inherit creates a child registry that falls back to this one, the way
// a nested sass:* module might layer host overrides over a vendored
// baseline.
func (r *Registry) Inherit() *Registry {
	return &Registry{data: map[string]*eval.BuiltinCallable{}, base: r}
}

func (r *Registry) Add(name string, c *eval.BuiltinCallable) {
	r.data[strings.ToLower(name)] = c
}

func (r *Registry) AddMultiple(fns map[string]*eval.BuiltinCallable) {
	for name, c := range fns {
		r.Add(name, c)
	}
}

func (r *Registry) Get(name string) (*eval.BuiltinCallable, bool) {
	if c, ok := r.data[strings.ToLower(name)]; ok {
		return c, true
	}
	if r.base != nil {
		return r.base.Get(name)
	}
	return nil, false
}

// All flattens the registry (own entries winning over inherited ones)
// for handoff to eval.Options.Functions or NewModule.
func (r *Registry) All() map[string]*eval.BuiltinCallable {
	out := map[string]*eval.BuiltinCallable{}
	if r.base != nil {
		for k, v := range r.base.All() {
			out[k] = v
		}
	}
	for k, v := range r.data {
		out[k] = v
	}
	return out
}

// NewModule packages a registry's callables as a *module.Module usable
// with Loader.RegisterBuiltin, so `@use "sass:math"` resolves without
// going through the Importer (spec 4.6's "Built-in modules bypass the
// importer").
func NewModule(canonicalURL string, r *Registry) *module.Module {
	m := module.New(canonicalURL)
	for name, c := range r.All() {
		m.Functions[name] = c
	}
	return m
}
