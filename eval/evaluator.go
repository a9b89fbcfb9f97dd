package eval

import (
	"sort"

	"github.com/sasscore/sasscore/ast"
	"github.com/sasscore/sasscore/css"
	"github.com/sasscore/sasscore/env"
	"github.com/sasscore/sasscore/errs"
	"github.com/sasscore/sasscore/extend"
	"github.com/sasscore/sasscore/importer"
	"github.com/sasscore/sasscore/logger"
	"github.com/sasscore/sasscore/module"
	"github.com/sasscore/sasscore/selector"
	"github.com/sasscore/sasscore/value"
)

// Options mirrors spec section 6's "Construction configuration".
type Options struct {
	Importer       importer.Importer
	GlobalVariables map[string]value.Value
	Functions      map[string]*BuiltinCallable
	Logger         logger.Logger
	SourceMap      bool
}

// Evaluator is the visitor described in spec 4.7. One Evaluator instance
// owns one compilation (spec section 5: "single-threaded and
// cooperative... one compilation owns one evaluator").
type Evaluator struct {
	opts Options

	Environment *env.Environment
	Importer    importer.Importer
	Logger      logger.Logger
	Loader      *module.Loader

	// current module being walked
	stylesheet *ast.Stylesheet
	extender   *extend.Extender

	// output tree position
	root   css.Node
	parent css.Node

	// legacy @import ordering (spec 4.7: "end_of_imports index,
	// out_of_order_imports list"): plain-CSS @import statements must
	// precede any non-import sibling in the emitted CSS even if the
	// source interleaves them with other statements.
	endOfImports      int
	outOfOrderImports []css.Node

	// innermost style-rule context
	styleRule      *css.StyleRule
	currentSelector *selector.List

	mediaQueries []string
	declarationPrefix string

	inFunction              bool
	inUnknownAtRule         bool
	inKeyframes             bool
	atRootExcludingStyleRule bool

	member   string
	stack    []errs.Frame
	importSpan errs.Span

	includedFiles map[string]bool
	builtins      *builtinRegistry

	// upstreamModules accumulates the modules this stylesheet @used or
	// @forwarded, consumed by executeModule to populate Module.Upstream
	// (spec 4.6).
	upstreamModules []*module.Module
	activeImports   map[string]bool

	// activeConfig/configConsumed track the `with(...)` configuration
	// this module was loaded with (spec 4.7): a top-level `!default`/
	// `!guarded` declaration marks the matching key consumed, and
	// executeModule reports any key left unmarked once the module body
	// finishes running.
	activeConfig   *module.Configuration
	configConsumed *module.Consumed
}

// EvaluateResult mirrors spec section 6.
type EvaluateResult struct {
	Stylesheet    css.Node
	IncludedFiles map[string]bool
}

// New constructs an Evaluator ready to Run a root stylesheet (spec 6:
// "Construction configuration").
func New(opts Options) *Evaluator {
	e := &Evaluator{
		opts:          opts,
		Environment:   env.New(),
		Importer:      opts.Importer,
		Logger:        opts.Logger,
		includedFiles: map[string]bool{},
	}
	if e.Logger == nil {
		e.Logger = logger.DiscardLogger{}
	}
	for name, v := range opts.GlobalVariables {
		e.Environment.Set(name, v, nil, env.SetOptions{Global: true})
	}
	registry := newBuiltinRegistry()
	for name, fn := range opts.Functions {
		registry.add(name, fn)
	}
	e.builtins = registry
	e.Loader = module.NewLoader(opts.Importer, e.executeModule)
	registerCoreModules(e.Loader)
	return e
}

// Run compiles a full document (spec section 6's "run" entry point).
func (e *Evaluator) Run(rootImporter importer.Importer, stylesheet *ast.Stylesheet) (*EvaluateResult, error) {
	e.Importer = rootImporter
	out, err := e.runStylesheet("root", stylesheet.URI, stylesheet)
	if err != nil {
		return nil, err
	}
	composed, err := e.composeRoot(stylesheet, out)
	if err != nil {
		return nil, e.wrapError(err, stylesheet.Span())
	}
	return &EvaluateResult{Stylesheet: composed, IncludedFiles: e.includedFiles}, nil
}

// composeRoot builds the Module spec 4.6 expects for the top-level
// stylesheet (its own CSS/extender plus every module reached through
// @use/@forward) and runs module.Compose over it, so the used modules'
// CSS and cross-module extensions actually reach the final output
// instead of being dropped once runStylesheet returns.
func (e *Evaluator) composeRoot(stylesheet *ast.Stylesheet, out css.Node) (css.Node, error) {
	sheet, ok := out.(*css.Stylesheet)
	if !ok {
		return out, nil
	}
	root := module.New(stylesheet.URI)
	root.CSS = sheet
	root.Extender = e.extender
	root.Upstream = e.upstreamModules
	root.RecomputeFlags()

	children, err := module.Compose(root)
	if err != nil {
		return nil, err
	}
	composed := css.NewStylesheet(sheet.Span())
	for _, c := range children {
		css.AddChild(composed, c)
	}
	return composed, nil
}

func (e *Evaluator) runStylesheet(importerID, canonicalURL string, stylesheet *ast.Stylesheet) (css.Node, error) {
	e.stylesheet = stylesheet
	e.extender = extend.New()
	e.root = css.NewStylesheet(stylesheet.Span())
	e.parent = e.root
	e.endOfImports = 0
	e.outOfOrderImports = nil

	if canonicalURL != "" {
		e.includedFiles[canonicalURL] = true
	}

	for _, stmt := range stylesheet.Body {
		if err := e.withSpanRecovery(stmt.Span(), func() error { return e.ExecuteStatement(stmt) }); err != nil {
			return nil, err
		}
	}

	return e.root, nil
}

// withSpanRecovery converts any ScriptError/FormatError that escapes run
// into a span-bearing RuntimeError at the statement/expression that
// triggered it (spec 4.8).
func (e *Evaluator) withSpanRecovery(span errs.Span, run func() error) error {
	if err := run(); err != nil {
		if _, already := err.(*errs.RuntimeError); already {
			return err
		}
		if _, ok := err.(*returnSignal); ok {
			return err
		}
		return e.wrapError(err, span)
	}
	return nil
}

func (e *Evaluator) wrapError(cause error, span errs.Span) error {
	return errs.NewRuntimeError(cause, span, e.stack)
}

// executeModule is the module.Executor a Loader calls to evaluate a
// freshly-parsed stylesheet into a Module (spec 4.6 step 5): fresh
// environment seeded only with the passed configuration (never the
// caller's local state), fresh extender, fresh output tree, sharing this
// Evaluator's Importer/Logger/builtins/Loader/includedFiles set.
func (e *Evaluator) executeModule(importerID, canonicalURL string, stylesheet *ast.Stylesheet, cfg *module.Configuration) (*module.Module, error) {
	child := &Evaluator{
		Environment:    env.New(),
		Importer:       e.Importer,
		Logger:         e.Logger,
		Loader:         e.Loader,
		builtins:       e.builtins,
		includedFiles:  e.includedFiles,
		activeConfig:   cfg,
		configConsumed: module.NewConsumed(),
	}
	for name, entry := range cfg.Entries {
		child.Environment.Set(name, entry.Value, nil, env.SetOptions{Global: true})
	}
	out, err := child.runStylesheet(importerID, canonicalURL, stylesheet)
	if err != nil {
		return nil, err
	}
	if !cfg.Implicit {
		if leftover := child.configConsumed.Leftover(cfg); len(leftover) > 0 {
			sort.Strings(leftover)
			return nil, errs.NewScriptError("No variable named $%s.", leftover[0])
		}
	}
	mod := module.New(canonicalURL)
	mod.CSS, _ = out.(*css.Stylesheet)
	mod.Extender = child.extender
	mod.Variables, mod.Functions, mod.Mixins = child.Environment.ExportAll()
	mod.Upstream = child.upstreamModules
	mod.RecomputeFlags()
	return mod, nil
}

// pushFrame pushes a call-stack frame for the duration of run, popping it
// unconditionally on return (spec 4.8: "pushed on entry and popped
// unconditionally on exit").
func (e *Evaluator) pushFrame(member string, callSiteSpan errs.Span, run func() error) error {
	e.stack = append(e.stack, errs.Frame{Member: member, CallSite: spanNode{callSiteSpan}})
	prevMember := e.member
	e.member = member
	defer func() {
		e.stack = e.stack[:len(e.stack)-1]
		e.member = prevMember
	}()
	return run()
}

// spanNode adapts a bare Span to errs.Frame's CallSite interface.
type spanNode struct{ sp errs.Span }

func (s spanNode) Span() errs.Span { return s.sp }

// EvaluateExpression evaluates a single expression against the current
// environment (spec section 6's REPL entry point).
func (e *Evaluator) EvaluateExpression(expr ast.Expression) (value.Value, error) {
	v, err := e.evalExpr(expr)
	if err != nil {
		return nil, e.wrapError(err, expr.Span())
	}
	return v, nil
}

// ExecuteStatement applies one statement (spec section 6's
// execute_statement entry point, e.g. @use or a variable declaration)
// against a shared evaluator.
func (e *Evaluator) ExecuteStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.VariableDecl:
		return e.execVariableDecl(s)
	case *ast.StyleRule:
		return e.execStyleRule(s)
	case *ast.Declaration:
		return e.execDeclaration(s)
	case *ast.MediaRule:
		return e.execMediaRule(s)
	case *ast.SupportsRule:
		return e.execSupportsRule(s)
	case *ast.AtRootRule:
		return e.execAtRoot(s)
	case *ast.UnknownAtRule:
		return e.execUnknownAtRule(s)
	case *ast.KeyframesRule:
		return e.execKeyframesRule(s)
	case *ast.KeyframeBlock:
		return e.execKeyframeBlock(s)
	case *ast.ExtendRule:
		return e.execExtend(s)
	case *ast.IfRule:
		return e.execIf(s)
	case *ast.EachRule:
		return e.execEach(s)
	case *ast.ForRule:
		return e.execFor(s)
	case *ast.WhileRule:
		return e.execWhile(s)
	case *ast.MixinDecl:
		e.Environment.SetMixin(s.Name, &UserDefinedCallable{
			Name: s.Name, Arguments: s.Arguments, RestArg: s.RestArg, Body: s.Body,
			Closure: e.Environment.Closure(), IsMixin: true, HasContent: s.HasContent,
		})
		return nil
	case *ast.IncludeRule:
		return e.execInclude(s)
	case *ast.ContentRule:
		return e.execContent(s)
	case *ast.FunctionDecl:
		e.Environment.SetFunction(s.Name, &UserDefinedCallable{
			Name: s.Name, Arguments: s.Arguments, RestArg: s.RestArg, Body: s.Body,
			Closure: e.Environment.Closure(),
		})
		return nil
	case *ast.ReturnRule:
		v, err := e.evalExpr(s.Value)
		if err != nil {
			return err
		}
		return &returnSignal{value: v}
	case *ast.ImportRule:
		return e.execImport(s)
	case *ast.UseRule:
		return e.execUse(s)
	case *ast.ForwardRule:
		return e.execForward(s)
	case *ast.WarnRule:
		return e.execWarn(s)
	case *ast.DebugRule:
		return e.execDebug(s)
	case *ast.ErrorRule:
		return e.execError(s)
	default:
		return errs.NewScriptError("unsupported statement %T", stmt)
	}
}

// execBody runs a sequence of statements, short-circuiting on the first
// error or @return signal (*returnSignal), restoring nothing
// itself — callers wrap it in the scope push/pop appropriate to the
// construct (spec 4.7).
func (e *Evaluator) execBody(body []ast.Statement) error {
	for _, stmt := range body {
		if err := e.withSpanRecovery(stmt.Span(), func() error { return e.ExecuteStatement(stmt) }); err != nil {
			return err
		}
	}
	return nil
}

// returnSignal is not an error in the user-facing sense; it's control
// flow threaded back up through execBody/ExecuteStatement the same way
// the teacher's evaluator short-circuits a mixin/ruleset walk early. It
// implements error only so it composes with the existing (value, error)
// return shape without a second return channel through every statement
// dispatch.
type returnSignal struct{ value value.Value }

func (r *returnSignal) Error() string { return "return outside of a function" }

// @each/@for/@while have no control signal of their own: execEach,
// execFor and execWhile return any error from their body unchanged, so a
// *returnSignal raised inside a loop nested in a function unwinds past
// the loop.
