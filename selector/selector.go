// Package selector implements the selector AST the extender and style
// rules operate on, plus the minimal re-parser the evaluator needs after
// interpolation (spec 4.5): selectors, once interpolated into plain
// text, are re-parsed into this structure rather than treated as opaque
// strings, so the extender can match and substitute at the simple-
// selector level (spec 4.4).
//
// Grounded on the teacher's selector_list.go/element.go/combinator.go
// (toakleaf-less.go less_go), generalized from LESS's single "Selector"
// shape (which always carries a combinator per element) to Sass's
// three-level selector-list/complex/compound/simple structure.
package selector

import (
	"strings"

	"github.com/sasscore/sasscore/errs"
)

// Simple is one simple selector: a type selector, class, id, attribute,
// pseudo-class/element, placeholder (%foo), or the parent reference (&).
type Simple struct {
	Text       string // verbatim text, e.g. ".foo", "#bar", ":hover", "&"
	IsParent   bool
}

func (s Simple) String() string { return s.Text }

// Compound is a run of simple selectors with no combinator between them
// (e.g. `a.foo:hover`), spec's GLOSSARY "compound".
type Compound struct {
	Simples []Simple
}

func (c Compound) String() string {
	var b strings.Builder
	for _, s := range c.Simples {
		b.WriteString(s.Text)
	}
	return b.String()
}

func (c Compound) ContainsParent() bool {
	for _, s := range c.Simples {
		if s.IsParent {
			return true
		}
	}
	return false
}

// ContainsSimple reports whether target (by verbatim text) appears in
// this compound, the match predicate the extender uses to find
// @extend targets (spec 4.4).
func (c Compound) ContainsSimple(target string) bool {
	for _, s := range c.Simples {
		if s.Text == target {
			return true
		}
	}
	return false
}

// ReplaceSimple returns a copy of c with every simple selector matching
// target replaced by the simple selectors of replacement, used when the
// extender substitutes an extending selector in place of its target
// (spec 4.4).
func (c Compound) ReplaceSimple(target string, replacement []Simple) Compound {
	out := make([]Simple, 0, len(c.Simples))
	for _, s := range c.Simples {
		if s.Text == target {
			out = append(out, replacement...)
			continue
		}
		out = append(out, s)
	}
	return Compound{Simples: out}
}

// Component is one compound selector plus the combinator preceding it
// (empty for the first component in a complex selector, meaning
// descendant-combinator/none).
type Component struct {
	Combinator string // "", ">", "+", "~"
	Compound   Compound
}

// Complex is a combinator chain of compound selectors (spec GLOSSARY
// "complex").
type Complex struct {
	Components []Component
}

func (x Complex) String() string {
	var b strings.Builder
	for i, c := range x.Components {
		if i > 0 {
			if c.Combinator == "" {
				b.WriteString(" ")
			} else {
				b.WriteString(" " + c.Combinator + " ")
			}
		}
		b.WriteString(c.Compound.String())
	}
	return b.String()
}

func (x Complex) ContainsParent() bool {
	for _, c := range x.Components {
		if c.Compound.ContainsParent() {
			return true
		}
	}
	return false
}

// List is a comma-separated selector list (spec GLOSSARY "selector
// list").
type List struct {
	Complexes []Complex
}

func (l List) String() string {
	parts := make([]string, len(l.Complexes))
	for i, c := range l.Complexes {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// ResolveParent substitutes every `&` compound component with the
// components of parent, for each complex selector in l, implementing
// spec 4.5's parent-selector resolution. When l has no `&` anywhere and
// the context requires one (style rules nested under another), the
// parent is implicitly prepended as a descendant ancestor instead,
// matching ordinary CSS nesting.
func ResolveParent(l List, parent *List) (List, error) {
	if parent == nil {
		for _, cx := range l.Complexes {
			if cx.ContainsParent() {
				return List{}, errs.NewScriptError("Top-level selectors may not contain the parent selector \"&\".")
			}
		}
		return l, nil
	}
	out := List{}
	for _, cx := range l.Complexes {
		if !cx.ContainsParent() {
			// Implicit nesting: every parent complex selector gets this
			// selector appended as a new descendant compound.
			for _, pcx := range parent.Complexes {
				merged := Complex{Components: append(append([]Component{}, pcx.Components...), cx.Components...)}
				out.Complexes = append(out.Complexes, merged)
			}
			continue
		}
		for _, pcx := range parent.Complexes {
			resolved, err := substituteParent(cx, pcx)
			if err != nil {
				return List{}, err
			}
			out.Complexes = append(out.Complexes, resolved)
		}
	}
	return out, nil
}

func substituteParent(cx Complex, parent Complex) (Complex, error) {
	var components []Component
	for _, comp := range cx.Components {
		if !comp.Compound.ContainsParent() {
			components = append(components, comp)
			continue
		}
		if len(comp.Compound.Simples) == 1 {
			// Bare `&`: splice the whole parent complex selector in place.
			if len(parent.Components) == 0 {
				continue
			}
			spliced := append([]Component{}, parent.Components...)
			if comp.Combinator != "" && len(spliced) > 0 {
				spliced[0].Combinator = comp.Combinator
			}
			components = append(components, spliced...)
			continue
		}
		// `&` fused with other simples, e.g. `&.foo`: substitute into the
		// parent's trailing compound only.
		if len(parent.Components) == 0 {
			return Complex{}, errs.NewScriptError("Parent selector is required but there is no parent selector to attach to.")
		}
		spliced := append([]Component{}, parent.Components...)
		last := spliced[len(spliced)-1]
		fused := Compound{}
		for _, s := range comp.Compound.Simples {
			if s.IsParent {
				fused.Simples = append(fused.Simples, last.Compound.Simples...)
			} else {
				fused.Simples = append(fused.Simples, s)
			}
		}
		spliced[len(spliced)-1] = Component{Combinator: last.Combinator, Compound: fused}
		if comp.Combinator != "" {
			spliced[0].Combinator = comp.Combinator
		}
		components = append(components, spliced...)
	}
	return Complex{Components: components}, nil
}
