// Package extend implements the cross-cutting @extend engine (spec 4.4):
// it records selectors as they're added to the output tree and the
// @extend relations declared against them, then applies those relations
// once per module at Finalize time, honoring media-query scope and the
// `!optional` flag.
//
// Grounded on the teacher's two-phase extend_visitor.go (find extends
// during a first pass, apply them against every registered selector in a
// second), generalized from LESS's single-element extend model to
// Sass's selector-list/complex/compound/simple structure (spec GLOSSARY).
package extend

import (
	"github.com/sasscore/sasscore/errs"
	"github.com/sasscore/sasscore/selector"
)

// Extension is one registered `@extend` relation.
type Extension struct {
	ExtenderSelector selector.Complex
	Target           selector.Simple
	Span             errs.Span
	MediaQueries     []string
	Optional         bool
	found            bool
}

// TrackedRule is the extendable-selector handle returned by AddSelector:
// a style rule's selector list plus the media-query scope it was added
// under (spec 4.4).
type TrackedRule struct {
	Selector     *selector.List
	MediaQueries []string
	Span         errs.Span
}

// Extender holds all selectors and extensions recorded for one module
// (spec 3: "Extender state").
type Extender struct {
	rules      []*TrackedRule
	extensions []*Extension
	ownCount   int // extensions registered directly on this module, excluding AddExtensions merges
}

func New() *Extender { return &Extender{} }

// AddSelector records selector_list as extendable and returns its
// handle, beginning to track it for future extensions (spec 4.4).
func (e *Extender) AddSelector(list selector.List, span errs.Span, media []string) *TrackedRule {
	listCopy := list
	tr := &TrackedRule{Selector: &listCopy, MediaQueries: append([]string{}, media...), Span: span}
	e.rules = append(e.rules, tr)
	return tr
}

// AddExtension registers an @extend: future (and already-registered)
// selectors whose compound contains target will be expanded with
// extenderSelector (spec 4.4).
func (e *Extender) AddExtension(extenderSelector selector.Complex, target selector.Simple, span errs.Span, media []string, optional bool) {
	e.extensions = append(e.extensions, &Extension{
		ExtenderSelector: extenderSelector,
		Target:           target,
		Span:             span,
		MediaQueries:     append([]string{}, media...),
		Optional:         optional,
	})
	e.ownCount++
}

// HasOwnExtensions reports whether any @extend was registered directly
// on this module (as opposed to merged in via AddExtensions from a
// downstream module), used to compute Module.TransitivelyContainsExtensions.
func (e *Extender) HasOwnExtensions() bool { return e.ownCount > 0 }

// ExtensionsWhereTarget enumerates extensions whose target matches pred,
// used to diagnose unsatisfied @extend (missing target) before module
// composition finishes resolving them downstream (spec 4.4).
func (e *Extender) ExtensionsWhereTarget(pred func(selector.Simple) bool) []*Extension {
	var out []*Extension
	for _, ext := range e.extensions {
		if pred(ext.Target) {
			out = append(out, ext)
		}
	}
	return out
}

// AddExtensions pulls in a downstream module's extensions so they are
// applied to this module's selectors too, implementing spec 4.6's
// "propagate extensions downstream-to-upstream": each module receives
// the extenders of modules that @use or @forward it.
func (e *Extender) AddExtensions(downstream *Extender) {
	e.extensions = append(e.extensions, downstream.extensions...)
}

// mediaCompatible reports whether ext applies to a rule recorded under
// ruleMedia. An extension declared at top level (no media scope) applies
// everywhere; an extension declared inside @media only applies to rules
// recorded under the identical media-query stack. This resolves the
// spec's open question ("the exact merge rule ... is implicit") the way
// the composition tests imply: extend does not cross unrelated media
// contexts.
func mediaCompatible(ext *Extension, ruleMedia []string) bool {
	if len(ext.MediaQueries) == 0 {
		return true
	}
	if len(ext.MediaQueries) != len(ruleMedia) {
		return false
	}
	for i := range ext.MediaQueries {
		if ext.MediaQueries[i] != ruleMedia[i] {
			return false
		}
	}
	return true
}

// Finalize materializes the extended selector on every tracked style
// rule (spec 4.4). It must be called before serialization (spec 3).
func (e *Extender) Finalize() error {
	for _, rule := range e.rules {
		var result []selector.Complex
		seen := map[string]bool{}
		add := func(cx selector.Complex) {
			key := cx.String()
			if !seen[key] {
				seen[key] = true
				result = append(result, cx)
			}
		}
		for _, cx := range rule.Selector.Complexes {
			for _, extra := range e.expand(cx, rule.MediaQueries) {
				add(extra)
			}
			add(cx)
		}
		rule.Selector.Complexes = result
	}

	var unsatisfied []*Extension
	for _, ext := range e.extensions {
		if !ext.Optional && !ext.found {
			unsatisfied = append(unsatisfied, ext)
		}
	}
	if len(unsatisfied) > 0 {
		first := unsatisfied[0]
		return errs.NewScriptError("The target selector was not found.\n  %s", first.Target.Text)
	}
	return nil
}

// expand returns the additional complex selectors produced by applying
// every matching extension to cx, one substitution per match. Extends
// are applied only one level deep (an extension's own extender selector
// is not itself further extended); this is the open-question simplicity
// the spec explicitly leaves to the implementer (section 4.9's "Open
// questions").
func (e *Extender) expand(cx selector.Complex, ruleMedia []string) []selector.Complex {
	var out []selector.Complex
	for ci, comp := range cx.Components {
		for _, simple := range comp.Compound.Simples {
			for _, ext := range e.extensions {
				if ext.Target.Text != simple.Text || !mediaCompatible(ext, ruleMedia) {
					continue
				}
				ext.found = true
				out = append(out, spliceExtension(cx, ci, simple.Text, ext.ExtenderSelector))
			}
		}
	}
	return out
}

// spliceExtension substitutes extenderSel in place of the compound
// position in cx that contains target, unifying any of the target
// compound's other simple selectors onto the extender's trailing
// compound (spec 4.4: "unifies them with compatible media scopes").
func spliceExtension(cx selector.Complex, componentIndex int, target string, extenderSel selector.Complex) selector.Complex {
	before := append([]selector.Component{}, cx.Components[:componentIndex]...)
	after := append([]selector.Component{}, cx.Components[componentIndex+1:]...)
	targetComponent := cx.Components[componentIndex]
	remainder := targetComponent.Compound.ReplaceSimple(target, nil)

	extComponents := append([]selector.Component{}, extenderSel.Components...)
	if len(extComponents) == 0 {
		extComponents = []selector.Component{{}}
	}
	last := extComponents[len(extComponents)-1]
	fused := selector.Compound{Simples: append(append([]selector.Simple{}, remainder.Simples...), last.Compound.Simples...)}
	extComponents[len(extComponents)-1] = selector.Component{Combinator: last.Combinator, Compound: fused}
	extComponents[0].Combinator = targetComponent.Combinator

	components := append(append(append([]selector.Component{}, before...), extComponents...), after...)
	return selector.Complex{Components: components}
}
