// Package env implements the evaluator's lexical environment (spec 4.2):
// a stack of scopes over a globals scope, with !global/!default
// semantics, semi-global scope transparency for control-flow constructs,
// and closure capture. Grounded on the teacher's Eval context
// (toakleaf-less.go less_go/contexts.go), generalized from LESS's single
// frame-list scoping to Sass's named variable/function/mixin triple
// namespace with !global writes and namespaced module access.
package env

import "github.com/sasscore/sasscore/value"

// Binding pairs a value with its declaring node. Node is kept as `any`
// (rather than ast.Node) so this package doesn't import ast and create a
// cycle; it exists purely so source-map variable mappings (spec 6:
// source_map option) can recover the declaring span later.
type Binding struct {
	Value value.Value
	Node  any // ast.Node; kept untyped to avoid an import cycle
}

// ModuleNamespace is the surface the environment needs to dispatch a
// namespaced variable/function/mixin reference ($mod.$name), implemented
// by module.Module.
type ModuleNamespace interface {
	Variable(name string) (value.Value, bool)
	Function(name string) (any, bool)
	Mixin(name string) (any, bool)
	SetVariable(name string, v value.Value) bool
}

// scope is one lexical frame: a flat map per namespace. Writes create new
// frames rather than mutating shared ones only at the Environment API
// boundary (Closure snapshots share frames by reference, spec 4.2); the
// frame's own maps are mutated in place once owned by exactly one
// environment, matching the teacher's Eval.Frames append/copy discipline.
type scope struct {
	vars   map[string]*Binding
	funcs  map[string]any
	mixins map[string]any
	// semiGlobal marks a scope pushed by @if/@each/@for/@while: plain
	// variable writes skip straight through it to the next real scope.
	semiGlobal bool
}

func newScope(semiGlobal bool) *scope {
	return &scope{vars: map[string]*Binding{}, funcs: map[string]any{}, mixins: map[string]any{}, semiGlobal: semiGlobal}
}

// Environment is a stack of scopes plus a globals scope (spec 4.2).
type Environment struct {
	globals *scope
	stack   []*scope // innermost last

	modules map[string]ModuleNamespace

	// content/mixin-frame bookkeeping for @content support (spec 4.2).
	contentStack []*ContentBinding
	mixinDepth   int
}

// ContentBinding is the content block captured at an @include call site,
// together with the environment it closed over.
type ContentBinding struct {
	Callable any // *eval.UserDefinedCallable; untyped to avoid a cycle
	Closure  *Environment
}

func New() *Environment {
	return &Environment{globals: newScope(false), modules: map[string]ModuleNamespace{}}
}

// RegisterModule makes a loaded module's exports reachable by namespace,
// used by @use to bind $mod.$name lookups (spec 4.6).
func (e *Environment) RegisterModule(namespace string, mod ModuleNamespace) {
	e.modules[namespace] = mod
}

func (e *Environment) current() *scope {
	if len(e.stack) == 0 {
		return e.globals
	}
	return e.stack[len(e.stack)-1]
}

// Get looks up a variable, dispatching to a module namespace when one is
// given (spec 4.2).
func (e *Environment) Get(name, namespace string) (value.Value, bool) {
	if namespace != "" {
		mod, ok := e.modules[namespace]
		if !ok {
			return nil, false
		}
		return mod.Variable(name)
	}
	for i := len(e.stack) - 1; i >= 0; i-- {
		if b, ok := e.stack[i].vars[name]; ok {
			return b.Value, true
		}
	}
	if b, ok := e.globals.vars[name]; ok {
		return b.Value, true
	}
	return nil, false
}

// SetOptions controls how Set resolves its target scope.
type SetOptions struct {
	Global    bool
	Default   bool
	Namespace string
}

// Set implements spec 4.2's write rule: !global always targets the
// globals scope; a plain write targets the innermost scope that already
// declares the name (skipping over semi-global scopes transparently,
// since those are pushed by control-flow constructs and should not
// shadow an enclosing declaration scope), otherwise creates the binding
// in the current non-semi-global scope.
func (e *Environment) Set(name string, v value.Value, node any, opts SetOptions) bool {
	if opts.Namespace != "" {
		mod, ok := e.modules[opts.Namespace]
		if !ok {
			return false
		}
		return mod.SetVariable(name, v)
	}
	if opts.Default {
		if existing, ok := e.Get(name, ""); ok {
			if _, isNull := existing.(value.Null); !isNull {
				return true // !default is a no-op when a non-null value already exists
			}
		}
	}
	if opts.Global {
		e.globals.vars[name] = &Binding{Value: v, Node: node}
		return true
	}
	for i := len(e.stack) - 1; i >= 0; i-- {
		if _, ok := e.stack[i].vars[name]; ok {
			e.stack[i].vars[name] = &Binding{Value: v, Node: node}
			return true
		}
	}
	if _, ok := e.globals.vars[name]; ok {
		e.globals.vars[name] = &Binding{Value: v, Node: node}
		return true
	}
	// No existing binding: create it in the innermost non-semi-global
	// scope, walking outward past any semi-global frames (spec 4.2).
	target := e.innermostDeclarationScope()
	target.vars[name] = &Binding{Value: v, Node: node}
	return true
}

func (e *Environment) innermostDeclarationScope() *scope {
	for i := len(e.stack) - 1; i >= 0; i-- {
		if !e.stack[i].semiGlobal {
			return e.stack[i]
		}
	}
	return e.globals
}

// SetFunction and SetMixin always bind at the current scope (spec 4.2).
func (e *Environment) SetFunction(name string, callable any) { e.current().funcs[name] = callable }
func (e *Environment) SetMixin(name string, callable any)    { e.current().mixins[name] = callable }

func (e *Environment) GetFunction(name, namespace string) (any, bool) {
	if namespace != "" {
		mod, ok := e.modules[namespace]
		if !ok {
			return nil, false
		}
		return mod.Function(name)
	}
	for i := len(e.stack) - 1; i >= 0; i-- {
		if f, ok := e.stack[i].funcs[name]; ok {
			return f, true
		}
	}
	f, ok := e.globals.funcs[name]
	return f, ok
}

func (e *Environment) GetMixin(name, namespace string) (any, bool) {
	if namespace != "" {
		mod, ok := e.modules[namespace]
		if !ok {
			return nil, false
		}
		return mod.Mixin(name)
	}
	for i := len(e.stack) - 1; i >= 0; i-- {
		if m, ok := e.stack[i].mixins[name]; ok {
			return m, true
		}
	}
	m, ok := e.globals.mixins[name]
	return m, ok
}

// Scope pushes a new scope (unless when is false), runs the callback,
// and pops it unconditionally, mirroring the teacher's scoped-save-
// restore discipline used for every construct that changes evaluation
// state (spec 4.7).
func (e *Environment) Scope(semiGlobal bool, when bool, run func() error) error {
	if !when {
		return run()
	}
	e.stack = append(e.stack, newScope(semiGlobal))
	defer func() { e.stack = e.stack[:len(e.stack)-1] }()
	return run()
}

// Closure snapshots the current scope stack by reference: further writes
// to the live environment create new bindings inside a scope's map, but
// since a closure environment shares the very same *scope pointers, a
// binding written into a still-open outer scope after capture *is*
// visible through the closure (lexical scoping), while scopes pushed
// after the snapshot are not (spec 4.2).
func (e *Environment) Closure() *Environment {
	stackCopy := make([]*scope, len(e.stack))
	copy(stackCopy, e.stack)
	return &Environment{globals: e.globals, stack: stackCopy, modules: e.modules}
}

// InMixin reports whether evaluation is currently inside a mixin body,
// gating `content-exists()` and `@content` (spec 4.2).
func (e *Environment) InMixin() bool { return e.mixinDepth > 0 }

// AsMixin marks the current frame as a mixin invocation for the
// duration of run.
func (e *Environment) AsMixin(run func() error) error {
	e.mixinDepth++
	defer func() { e.mixinDepth-- }()
	return run()
}

// WithContent pushes a content-block binding for the duration of run,
// making it reachable via @content (spec 4.2).
func (e *Environment) WithContent(binding *ContentBinding, run func() error) error {
	e.contentStack = append(e.contentStack, binding)
	defer func() { e.contentStack = e.contentStack[:len(e.contentStack)-1] }()
	return run()
}

// Content returns the innermost bound content block, if any.
func (e *Environment) Content() *ContentBinding {
	if len(e.contentStack) == 0 {
		return nil
	}
	return e.contentStack[len(e.contentStack)-1]
}

func (e *Environment) ContentExists() bool { return e.Content() != nil }

// ExportAll snapshots the globals scope's bindings. A module's top-level
// declarations always land in globals (module execution starts with an
// empty scope stack), so this is what a finished module exports (spec
// 4.6).
func (e *Environment) ExportAll() (vars map[string]value.Value, funcs map[string]any, mixins map[string]any) {
	vars = make(map[string]value.Value, len(e.globals.vars))
	for k, b := range e.globals.vars {
		vars[k] = b.Value
	}
	funcs = make(map[string]any, len(e.globals.funcs))
	for k, f := range e.globals.funcs {
		funcs[k] = f
	}
	mixins = make(map[string]any, len(e.globals.mixins))
	for k, m := range e.globals.mixins {
		mixins[k] = m
	}
	return
}
