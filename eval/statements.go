package eval

import (
	"strings"

	"github.com/sasscore/sasscore/ast"
	"github.com/sasscore/sasscore/css"
	"github.com/sasscore/sasscore/env"
	"github.com/sasscore/sasscore/errs"
	"github.com/sasscore/sasscore/logger"
	"github.com/sasscore/sasscore/module"
	"github.com/sasscore/sasscore/selector"
	"github.com/sasscore/sasscore/value"
)

func (e *Evaluator) execVariableDecl(s *ast.VariableDecl) error {
	v, err := e.evalExpr(s.Value)
	if err != nil {
		return err
	}
	// !guarded behaves like !default for the purpose of a module's own
	// configurable top-level declarations (spec 4.6): both skip the write
	// when a non-null value is already bound (the value a configuration
	// seeded in as a global before the module body ran).
	opts := env.SetOptions{Global: s.Global, Default: s.Default || s.Guarded, Namespace: s.Namespace}
	if !e.Environment.Set(s.Name, v, s, opts) {
		return errs.NewScriptError("There is no module with namespace \"%s\".", s.Namespace)
	}
	// A top-level `!default`/`!guarded` declaration is how a module reads
	// back its `with(...)` configuration (spec 4.6/4.7): whether or not
	// the write actually no-ops, the declaration is what "consumes" the
	// matching configuration entry.
	if s.Namespace == "" && (s.Default || s.Guarded) && e.activeConfig != nil && e.configConsumed != nil {
		if _, ok := e.activeConfig.Entries[s.Name]; ok {
			e.configConsumed.Mark(s.Name)
		}
	}
	return nil
}

func (e *Evaluator) execStyleRule(s *ast.StyleRule) error {
	text, err := e.evalInterpolation(s.Selector)
	if err != nil {
		return err
	}
	parsed, err := selector.Parse(text)
	if err != nil {
		return &errs.FormatError{Message: err.Error(), Span: s.Selector.Span()}
	}
	resolved, err := selector.ResolveParent(parsed, e.currentSelector)
	if err != nil {
		return err
	}

	rule := css.NewStyleRule(s.Span(), resolved.String())
	css.AddChild(e.parent, rule)
	e.extender.AddSelector(resolved, s.Span(), append([]string{}, e.mediaQueries...))

	savedParent, savedRule, savedSelector := e.parent, e.styleRule, e.currentSelector
	e.parent, e.styleRule, e.currentSelector = rule, rule, &resolved
	err = e.execBody(s.Body)
	css.MarkLastChildGroupEnd(rule)
	css.PruneIfEmpty(rule)
	e.parent, e.styleRule, e.currentSelector = savedParent, savedRule, savedSelector
	return err
}

func (e *Evaluator) execDeclaration(s *ast.Declaration) error {
	name, err := e.evalInterpolation(s.Name)
	if err != nil {
		return err
	}
	fullName := e.declarationPrefix + name

	if s.Value != nil {
		v, err := e.evalExpr(s.Value)
		if err != nil {
			return err
		}
		if _, isMap := v.(value.Map); isMap {
			return errs.NewScriptError("%s isn't a valid CSS value (maps can't be used in declarations).", v.Inspect())
		}
		if _, isNull := v.(value.Null); !isNull {
			decl := css.NewDeclaration(s.Span(), fullName, v.CSSText(), s.Value.Span())
			css.AddChild(e.parent, decl)
		}
	}

	if len(s.Body) > 0 {
		saved := e.declarationPrefix
		e.declarationPrefix = fullName + "-"
		err := e.execBody(s.Body)
		e.declarationPrefix = saved
		if err != nil {
			return err
		}
	}
	return nil
}

// mediaHoistTarget walks up from the current output-tree position past
// any run of style-rule/media-rule ancestors (spec 4.7: "@media hoists
// above the enclosing style rule, merging with any enclosing @media"),
// returning the first ancestor that is neither, together with the
// style-rule ancestors passed through on the way (outermost first), so
// execMediaRule can clone them beneath the hoisted node to preserve
// selector nesting. Media-rule ancestors are skipped rather than
// collected: their query text is already tracked in e.mediaQueries.
func (e *Evaluator) mediaHoistTarget() (css.Node, []*css.StyleRule) {
	var styleRules []*css.StyleRule
	node := e.parent
	for {
		switch v := node.(type) {
		case *css.StyleRule:
			styleRules = append(styleRules, v)
			node = node.Parent()
			continue
		case *css.MediaRule:
			node = node.Parent()
			continue
		}
		break
	}
	for i, j := 0, len(styleRules)-1; i < j; i, j = i+1, j-1 {
		styleRules[i], styleRules[j] = styleRules[j], styleRules[i]
	}
	return node, styleRules
}

func (e *Evaluator) execMediaRule(s *ast.MediaRule) error {
	text, err := e.evalInterpolation(s.Query)
	if err != nil {
		return err
	}

	anchor, ancestors := e.mediaHoistTarget()

	savedParent, savedRule, savedQueries := e.parent, e.styleRule, e.mediaQueries
	e.mediaQueries = append(append([]string{}, e.mediaQueries...), text)

	rule := css.NewMediaRule(s.Span(), strings.Join(e.mediaQueries, " and "))
	css.AddChild(anchor, rule)

	chain := []css.Node{rule}
	target := css.Node(rule)
	for _, ancestor := range ancestors {
		clone := ancestor.CopyWithoutChildren()
		css.AddChild(target, clone)
		css.MarkLastChildGroupEnd(target)
		target = clone
		chain = append(chain, clone)
		e.styleRule = clone
	}
	e.parent = target

	err = e.execBody(s.Body)
	css.MarkLastChildGroupEnd(target)
	// Prune empty wrappers from the innermost clone outward to the
	// merged media node itself: if every bit of a clone's content
	// hoisted out further still, it must not linger as an empty wrapper
	// in the output tree (spec 4.7).
	for i := len(chain) - 1; i >= 0; i-- {
		if !css.PruneIfEmpty(chain[i]) {
			break
		}
	}
	e.parent, e.styleRule, e.mediaQueries = savedParent, savedRule, savedQueries
	return err
}

func (e *Evaluator) execSupportsRule(s *ast.SupportsRule) error {
	cond, err := e.evalExpr(s.Condition)
	if err != nil {
		return err
	}
	rule := css.NewSupportsRule(s.Span(), cond.CSSText())
	css.AddChild(e.parent, rule)

	savedParent := e.parent
	e.parent = rule
	err = e.execBody(s.Body)
	css.MarkLastChildGroupEnd(rule)
	e.parent = savedParent
	return err
}

// atRootExcluded parses the simplified `@at-root (with: ...)` /
// `(without: ...)` query form into the set of ancestor kinds to strip.
// The default, empty query excludes only style rules (spec 4.7's
// at_root_excluding_style_rule note), keeping @media/@supports ancestors
// intact, which is the form libraries overwhelmingly use in practice.
func atRootExcluded(query string) map[string]bool {
	all := map[string]bool{"rule": true, "media": true, "supports": true}
	query = strings.TrimSpace(query)
	if query == "" {
		return map[string]bool{"rule": true}
	}
	without := strings.Contains(query, "without")
	colon := strings.Index(query, ":")
	if colon < 0 {
		return map[string]bool{"rule": true}
	}
	rest := strings.Trim(query[colon+1:], " )")
	fields := strings.Fields(rest)
	named := map[string]bool{}
	for _, f := range fields {
		named[f] = true
	}
	if named["all"] {
		return map[string]bool{"rule": true, "media": true, "supports": true, "all": true}
	}
	if without {
		return named
	}
	// "with": keep exactly the named kinds, excluding everything else.
	out := map[string]bool{}
	for k := range all {
		if !named[k] {
			out[k] = true
		}
	}
	return out
}

func kindTag(n css.Node) string {
	switch n.(type) {
	case *css.StyleRule:
		return "rule"
	case *css.MediaRule:
		return "media"
	case *css.SupportsRule:
		return "supports"
	default:
		return ""
	}
}

func (e *Evaluator) execAtRoot(s *ast.AtRootRule) error {
	queryText, err := e.evalInterpolation(s.Query)
	if err != nil {
		return err
	}
	excluded := atRootExcluded(queryText)

	target := e.parent
	if excluded["all"] {
		target = e.root
	} else {
		for target.Parent() != nil && excluded[kindTag(target)] {
			target = target.Parent()
		}
	}

	savedParent, savedRule, savedSelector, savedQueries := e.parent, e.styleRule, e.currentSelector, e.mediaQueries
	e.parent = target
	if excluded["rule"] || excluded["all"] {
		e.styleRule = nil
		e.currentSelector = nil
	}
	if excluded["media"] || excluded["all"] {
		e.mediaQueries = nil
	}
	err = e.execBody(s.Body)
	e.parent, e.styleRule, e.currentSelector, e.mediaQueries = savedParent, savedRule, savedSelector, savedQueries
	return err
}

func (e *Evaluator) execUnknownAtRule(s *ast.UnknownAtRule) error {
	value, err := e.evalInterpolation(s.Value)
	if err != nil {
		return err
	}
	rule := css.NewAtRule(s.Span(), s.Name, value, s.Childless)
	css.AddChild(e.parent, rule)
	if s.Childless {
		return nil
	}
	savedParent, savedFlag := e.parent, e.inUnknownAtRule
	e.parent, e.inUnknownAtRule = rule, true
	err = e.execBody(s.Body)
	css.MarkLastChildGroupEnd(rule)
	e.parent, e.inUnknownAtRule = savedParent, savedFlag
	return err
}

func (e *Evaluator) execKeyframesRule(s *ast.KeyframesRule) error {
	nameVal, err := e.evalExpr(s.Name)
	if err != nil {
		return err
	}
	rule := css.NewAtRule(s.Span(), "keyframes", s.Prefix+nameVal.CSSText(), false)
	css.AddChild(e.parent, rule)

	savedParent, savedFlag := e.parent, e.inKeyframes
	e.parent, e.inKeyframes = rule, true
	err = e.execBody(s.Body)
	css.MarkLastChildGroupEnd(rule)
	e.parent, e.inKeyframes = savedParent, savedFlag
	return err
}

func (e *Evaluator) execKeyframeBlock(s *ast.KeyframeBlock) error {
	var parts []string
	for _, interp := range s.Selectors {
		text, err := e.evalInterpolation(interp)
		if err != nil {
			return err
		}
		parts = append(parts, text)
	}
	selectors, err := selector.ParseKeyframeSelectors(strings.Join(parts, ", "))
	if err != nil {
		return &errs.FormatError{Message: err.Error(), Span: s.Span()}
	}
	block := css.NewKeyframeBlock(s.Span(), selectors)
	css.AddChild(e.parent, block)

	savedParent := e.parent
	e.parent = block
	err = e.execBody(s.Body)
	css.MarkLastChildGroupEnd(block)
	e.parent = savedParent
	return err
}

func (e *Evaluator) execExtend(s *ast.ExtendRule) error {
	if e.currentSelector == nil {
		return errs.NewScriptError("@extend may only be used within style rules.")
	}
	text, err := e.evalInterpolation(s.Target)
	if err != nil {
		return err
	}
	targetList, err := selector.Parse(text)
	if err != nil {
		return &errs.FormatError{Message: err.Error(), Span: s.Target.Span()}
	}
	for _, cx := range targetList.Complexes {
		for _, comp := range cx.Components {
			for _, simple := range comp.Compound.Simples {
				for _, extenderCx := range e.currentSelector.Complexes {
					e.extender.AddExtension(extenderCx, simple, s.Span(), append([]string{}, e.mediaQueries...), s.Optional)
				}
			}
		}
	}
	return nil
}

func (e *Evaluator) execIf(s *ast.IfRule) error {
	for _, clause := range s.Clauses {
		if clause.Condition == nil {
			return e.Environment.Scope(true, true, func() error { return e.execBody(clause.Body) })
		}
		cond, err := e.evalExpr(clause.Condition)
		if err != nil {
			return err
		}
		if cond.Truthy() {
			return e.Environment.Scope(true, true, func() error { return e.execBody(clause.Body) })
		}
	}
	return nil
}

func (e *Evaluator) execEach(s *ast.EachRule) error {
	listVal, err := e.evalExpr(s.List)
	if err != nil {
		return err
	}
	for _, item := range value.AsList(listVal) {
		err := e.Environment.Scope(true, true, func() error {
			if len(s.Variables) == 1 {
				e.Environment.Set(s.Variables[0], item, nil, env.SetOptions{})
			} else {
				parts := value.AsList(item)
				for i, name := range s.Variables {
					v := value.Value(value.TheNull)
					if i < len(parts) {
						v = parts[i]
					}
					e.Environment.Set(name, v, nil, env.SetOptions{})
				}
			}
			return e.execBody(s.Body)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) execFor(s *ast.ForRule) error {
	fromV, err := e.evalExpr(s.From)
	if err != nil {
		return err
	}
	toV, err := e.evalExpr(s.To)
	if err != nil {
		return err
	}
	fromN, err := value.AssertNumber(fromV, "from")
	if err != nil {
		return err
	}
	toN, err := value.AssertNumber(toV, "to")
	if err != nil {
		return err
	}

	from, to := int(fromN.V), int(toN.V)
	step := 1
	if from > to {
		step = -1
	}
	end := to
	if s.Exclusive {
		end -= step
	}
	for i := from; (step > 0 && i <= end) || (step < 0 && i >= end); i += step {
		err := e.Environment.Scope(true, true, func() error {
			e.Environment.Set(s.Variable, value.NewNumber(float64(i), fromN.Unit()), nil, env.SetOptions{})
			return e.execBody(s.Body)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) execWhile(s *ast.WhileRule) error {
	for {
		cond, err := e.evalExpr(s.Condition)
		if err != nil {
			return err
		}
		if !cond.Truthy() {
			return nil
		}
		if err := e.Environment.Scope(true, true, func() error { return e.execBody(s.Body) }); err != nil {
			return err
		}
	}
}

func (e *Evaluator) execInclude(s *ast.IncludeRule) error {
	callable, ok := e.Environment.GetMixin(s.Name, s.Namespace)
	if !ok {
		return errs.NewScriptError("Undefined mixin.")
	}
	uc, ok := callable.(*UserDefinedCallable)
	if !ok {
		return errs.NewScriptError("Undefined mixin.")
	}
	if s.Content != nil && !uc.HasContent {
		return errs.NewScriptError("Mixin doesn't accept a content block.")
	}
	return e.invokeUserMixin(uc, s)
}

func (e *Evaluator) execContent(s *ast.ContentRule) error {
	binding := e.Environment.Content()
	if binding == nil {
		return nil
	}
	block, ok := binding.Callable.(*ast.ContentBlock)
	if !ok {
		return errs.NewScriptError("invalid content binding")
	}
	cs := callSite{Name: "@content", Span: s.Span(), Positional: s.Positional, Named: s.Named}
	bound, err := e.evalArguments(block.Arguments, cs)
	if err != nil {
		return err
	}
	saved := e.Environment
	e.Environment = binding.Closure.Closure()
	defer func() { e.Environment = saved }()
	return e.Environment.Scope(false, true, func() error {
		for _, name := range bound.order {
			e.Environment.Set(name, bound.byName[name], nil, env.SetOptions{})
		}
		return e.execBody(block.Body)
	})
}

func isPlainCSSImport(url string) bool {
	return strings.HasPrefix(url, "http://") ||
		strings.HasPrefix(url, "https://") ||
		strings.HasPrefix(url, "//") ||
		strings.HasSuffix(url, ".css") ||
		strings.HasPrefix(url, "url(")
}

func (e *Evaluator) execImport(s *ast.ImportRule) error {
	for _, t := range s.URLs {
		if isPlainCSSImport(t.URL) {
			supportsText := ""
			if t.Supports != nil {
				v, err := e.evalExpr(t.Supports)
				if err != nil {
					return err
				}
				supportsText = v.CSSText()
			}
			mediaText, err := e.evalInterpolation(t.Media)
			if err != nil {
				return err
			}
			node := css.NewImport(s.Span(), t.URL, supportsText, mediaText)
			css.AddChild(e.parent, node)
			continue
		}
		if err := e.loadLegacyImport(t.URL, s.Span()); err != nil {
			return err
		}
	}
	return nil
}

// loadLegacyImport splices an imported stylesheet's statements in at the
// current position and environment, matching legacy @import's
// "textually pasted" scoping (unlike @use/@forward, which execute in an
// isolated module environment, spec 4.6 vs section 2's legacy note).
func (e *Evaluator) loadLegacyImport(url string, span errs.Span) error {
	base := ""
	if e.stylesheet != nil {
		base = e.stylesheet.URI
	}
	_, canonical, sheet, ok, err := e.Importer.Load(url, base, true)
	if err != nil {
		return err
	}
	if !ok {
		return errs.NewScriptError("Can't find stylesheet to import.")
	}
	if e.activeImports == nil {
		e.activeImports = map[string]bool{}
	}
	if e.activeImports[canonical] {
		return errs.NewScriptError("Import loop: %s imports itself.", canonical)
	}
	e.activeImports[canonical] = true
	defer delete(e.activeImports, canonical)
	e.includedFiles[canonical] = true

	savedSheet := e.stylesheet
	e.stylesheet = sheet
	defer func() { e.stylesheet = savedSheet }()
	return e.execBody(sheet.Body)
}

func (e *Evaluator) buildConfiguration(entries []ast.ConfigEntry) (*module.Configuration, error) {
	if len(entries) == 0 {
		return module.EmptyConfiguration(), nil
	}
	m := map[string]*module.ConfigEntry{}
	for _, c := range entries {
		v, err := e.evalExpr(c.Value)
		if err != nil {
			return nil, err
		}
		m[c.Name] = &module.ConfigEntry{Value: v, Span: c.Value.Span(), Default: c.Default}
	}
	return module.NewConfiguration(m), nil
}

// defaultNamespace derives a @use namespace from its URL the way Sass
// does: the final path segment, minus a leading underscore and any
// extension (spec 4.6).
func defaultNamespace(url string) string {
	name := url
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimPrefix(name, "_")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return name
}

func (e *Evaluator) execUse(s *ast.UseRule) error {
	cfg, err := e.buildConfiguration(s.Configuration)
	if err != nil {
		return err
	}
	base := ""
	if e.stylesheet != nil {
		base = e.stylesheet.URI
	}
	mod, err := e.Loader.LoadModule(s.URL, s.Span(), base, cfg, false, true)
	if err != nil {
		return err
	}
	e.upstreamModules = append(e.upstreamModules, mod)

	ns := s.Namespace
	if ns == "" {
		ns = defaultNamespace(s.URL)
	}
	if ns == "*" {
		for name, v := range mod.Variables {
			e.Environment.Set(name, v, nil, env.SetOptions{Global: true})
		}
		for name, f := range mod.Functions {
			e.Environment.SetFunction(name, f)
		}
		for name, mx := range mod.Mixins {
			e.Environment.SetMixin(name, mx)
		}
		return nil
	}
	e.Environment.RegisterModule(ns, mod)
	return nil
}

func toSet(names []string) map[string]bool {
	out := map[string]bool{}
	for _, n := range names {
		out[n] = true
	}
	return out
}

func (e *Evaluator) execForward(s *ast.ForwardRule) error {
	cfg, err := e.buildConfiguration(s.Configuration)
	if err != nil {
		return err
	}
	base := ""
	if e.stylesheet != nil {
		base = e.stylesheet.URI
	}
	mod, err := e.Loader.LoadModule(s.URL, s.Span(), base, cfg, false, true)
	if err != nil {
		return err
	}
	e.upstreamModules = append(e.upstreamModules, mod)

	show, hide := toSet(s.ShowOnly), toSet(s.Hide)
	visible := func(name string) bool {
		if len(show) > 0 {
			return show[name]
		}
		if len(hide) > 0 {
			return !hide[name]
		}
		return true
	}
	for name, v := range mod.Variables {
		if visible(name) {
			e.Environment.Set(s.Prefix+name, v, nil, env.SetOptions{Global: true})
		}
	}
	for name, f := range mod.Functions {
		if visible(name) {
			e.Environment.SetFunction(s.Prefix+name, f)
		}
	}
	for name, mx := range mod.Mixins {
		if visible(name) {
			e.Environment.SetMixin(s.Prefix+name, mx)
		}
	}
	return nil
}

func (e *Evaluator) execWarn(s *ast.WarnRule) error {
	v, err := e.evalExpr(s.Value)
	if err != nil {
		return err
	}
	span := s.Span()
	e.Logger.Warn(displayText(v), logger.WarnOptions{Span: &span, Trace: e.stack})
	return nil
}

func (e *Evaluator) execDebug(s *ast.DebugRule) error {
	v, err := e.evalExpr(s.Value)
	if err != nil {
		return err
	}
	e.Logger.Debug(displayText(v), s.Span())
	return nil
}

func (e *Evaluator) execError(s *ast.ErrorRule) error {
	v, err := e.evalExpr(s.Value)
	if err != nil {
		return err
	}
	return errs.NewScriptError("%s", displayText(v))
}

// displayText renders a value for @warn/@debug/@error: a string, quoted or
// not, prints its text without quotes; everything else prints the way
// @debug shows it
// (spec 4.7).
func displayText(v value.Value) string {
	if s, ok := v.(value.String); ok {
		return s.Text
	}
	return v.Inspect()
}
