// Package ast defines the input Sass syntax tree the evaluator consumes.
// The parser that produces these nodes is an external collaborator (spec
// section 1, "Out of scope"); this package only declares the node shapes
// the evaluator needs to walk, each carrying a source Span. Shaped after
// the teacher's node structs (toakleaf-less.go less_go/declaration.go,
// atrule.go, anonymous.go): small structs, a Span() accessor, no
// inheritance — dispatch happens by type switch in the evaluator.
package ast

import "github.com/sasscore/sasscore/errs"

// Node is implemented by every statement and expression.
type Node interface {
	Span() errs.Span
}

type base struct{ Sp errs.Span }

func (b base) Span() errs.Span { return b.Sp }

// ---- Statements ----

type Statement interface {
	Node
	stmt()
}

type stmtBase struct{ base }

func (stmtBase) stmt() {}

// Stylesheet is the top-level AST node: a list of statements, plus the
// flags the module loader needs (section 4.6).
type Stylesheet struct {
	base
	Body          []Statement
	URI           string // this stylesheet's own canonical URL; relative @use/@forward/@import URLs resolve against it
	HasUseOrForward bool
}

type VariableDecl struct {
	stmtBase
	Name      string
	Namespace string // non-empty for a namespaced write ($mod.$name: ...)
	Value     Expression
	Global    bool // !global
	Default   bool // !default
	Guarded   bool // !guarded (module configuration interaction)
}

type StyleRule struct {
	stmtBase
	Selector Interpolation // re-parsed as a selector list at eval time
	Body     []Statement
}

type Declaration struct {
	stmtBase
	Name      Interpolation
	Value     Expression
	Body      []Statement // nested declarations: font: x { size: y }
	CustomProp bool       // name starts with "--"
}

type MediaRule struct {
	stmtBase
	Query Interpolation
	Body  []Statement
}

type SupportsRule struct {
	stmtBase
	Condition Expression
	Body      []Statement
}

type AtRootRule struct {
	stmtBase
	Query Interpolation // optional; empty means default "with: rule"
	Body  []Statement
}

type UnknownAtRule struct {
	stmtBase
	Name      string
	Value     Interpolation
	Childless bool
	Body      []Statement
}

type KeyframesRule struct {
	stmtBase
	Prefix   string
	Name     Expression
	Body     []Statement
}

type KeyframeBlock struct {
	stmtBase
	Selectors []Interpolation
	Body      []Statement
}

type ExtendRule struct {
	stmtBase
	Target   Interpolation
	Optional bool
}

type IfRule struct {
	stmtBase
	Clauses []IfClause // condition==nil on the trailing @else (no condition)
}

type IfClause struct {
	Condition Expression
	Body      []Statement
}

type EachRule struct {
	stmtBase
	Variables []string
	List      Expression
	Body      []Statement
}

type ForRule struct {
	stmtBase
	Variable  string
	From      Expression
	To        Expression
	Exclusive bool
	Body      []Statement
}

type WhileRule struct {
	stmtBase
	Condition Expression
	Body      []Statement
}

type MixinDecl struct {
	stmtBase
	Name      string
	Arguments []Argument
	RestArg   string
	Body      []Statement
	HasContent bool
}

type IncludeRule struct {
	stmtBase
	Name      string
	Namespace string
	Positional []Expression
	Named      map[string]Expression
	NamedOrder []string // insertion order for named args, since Go maps don't preserve it
	RestArg    Expression // trailing ...$list / ...$map
	Content    *ContentBlock
}

type ContentBlock struct {
	Arguments []Argument
	Body      []Statement
}

type ContentRule struct {
	stmtBase
	Positional []Expression
	Named      map[string]Expression
}

type FunctionDecl struct {
	stmtBase
	Name      string
	Arguments []Argument
	RestArg   string
	Body      []Statement
}

type ReturnRule struct {
	stmtBase
	Value Expression
}

type ImportRule struct {
	stmtBase
	URLs []ImportTarget
}

type ImportTarget struct {
	URL       string // literal or interpolated-then-resolved URL
	Supports  Expression
	Media     Interpolation
}

type UseRule struct {
	stmtBase
	URL           string
	Namespace     string // "" => derived from URL; "*" => no namespace prefix
	Configuration []ConfigEntry
}

type ForwardRule struct {
	stmtBase
	URL           string
	Prefix        string
	ShowOnly      []string
	Hide          []string
	Configuration []ConfigEntry
}

type ConfigEntry struct {
	Name    string
	Value   Expression
	Default bool
}

type WarnRule struct {
	stmtBase
	Value Expression
}

type DebugRule struct {
	stmtBase
	Value Expression
}

type ErrorRule struct {
	stmtBase
	Value Expression
}

type Argument struct {
	Name    string
	Default Expression // nil if required
	Rest    bool
}

// ---- Expressions ----

type Expression interface {
	Node
	expr()
}

type exprBase struct{ base }

func (exprBase) expr() {}

type NullLiteral struct{ exprBase }
type BoolLiteral struct {
	exprBase
	Value bool
}
type NumberLiteral struct {
	exprBase
	Value      float64
	Unit       string // surface unit as written; "" for unitless
}
type StringLiteral struct {
	exprBase
	Text   Interpolation
	Quoted bool
}
type ColorLiteral struct {
	exprBase
	R, G, B int
	A       float64
	Original string // as written, for original_format preservation
}

type ListExpr struct {
	exprBase
	Items     []Expression
	Separator string // "space" | "comma"
	Bracketed bool
}

type MapExpr struct {
	exprBase
	Keys   []Expression
	Values []Expression
}

type VariableExpr struct {
	exprBase
	Name      string
	Namespace string
}

type BinaryOp struct {
	exprBase
	Op          string // "+","-","*","/","%","<","<=",">",">=","==","!=","and","or"
	Left, Right Expression
}

type UnaryOp struct {
	exprBase
	Op      string // "+","-","/","not"
	Operand Expression
}

type ParenExpr struct {
	exprBase
	Inner Expression
}

type FunctionCallExpr struct {
	exprBase
	Name       string
	Namespace  string
	Positional []Expression
	Named      map[string]Expression
	NamedOrder []string // insertion order for named args, since Go maps don't preserve it
	Rest       Expression
	RestMap    Expression // trailing named-rest, e.g. fn($a, $kwargs...)
}

type IfExpr struct {
	exprBase
	Condition, IfTrue, IfFalse Expression
}

type SelectorExpr struct{ exprBase } // bare `&` used as an expression

type ParentSelectorRef struct{ exprBase } // `&` used inside a selector string

type FunctionRefExpr struct {
	exprBase
	Name string // get-function(...) result; resolved at eval time
}

// Interpolation is an ordered sequence of literal text and expressions,
// concatenated at eval time (spec 4.5). Re-parsed as selectors, media
// queries, at-root queries, or keyframe selectors depending on context.
type Interpolation struct {
	Sp       errs.Span
	Literals []string     // len(Literals) == len(Expressions)+1
	Expressions []Expression
}

func (i Interpolation) Span() errs.Span { return i.Sp }

// IsPlain reports whether the interpolation has no embedded expressions,
// letting callers skip evaluation entirely for ordinary text.
func (i Interpolation) IsPlain() bool { return len(i.Expressions) == 0 }
