// Package css implements the mutable output CSS tree the evaluator
// builds (spec 4.3): a parent-child tree of stylesheet/rule/at-rule/
// declaration/comment/import nodes with sibling order and group markers.
// Grounded on the teacher's Ruleset/Declaration/AtRule/Media node shapes
// (toakleaf-less.go less_go/ruleset.go, declaration.go, atrule.go,
// media.go) adapted from LESS's single "Ruleset can contain rules or
// further rulesets" shape to Sass's richer node-kind set (spec 3).
package css

import "github.com/sasscore/sasscore/errs"

// Kind tags a Node's concrete variant for exhaustive type switches in
// the serializer (out of scope here) and the extender.
type Kind int

const (
	KindStylesheet Kind = iota
	KindStyleRule
	KindAtRule
	KindMediaRule
	KindSupportsRule
	KindKeyframeBlock
	KindDeclaration
	KindImport
	KindComment
)

// Node is one element of the output tree. Every concrete node embeds
// *base, which supplies parent/child bookkeeping common to all kinds.
type Node interface {
	Kind() Kind
	Parent() Node
	Children() []Node
	Span() errs.Span
	// IsGroupEnd reports whether this is the last child of its parent's
	// source-order children, used by the serializer to decide blank-line
	// insertion between groups (spec 4.3).
	IsGroupEnd() bool
	setParent(Node)
	appendChild(Node)
	setGroupEnd(bool)
	removeChild(Node)
}

type base struct {
	parent   Node
	children []Node
	sp       errs.Span
	groupEnd bool
}

func (b *base) Parent() Node        { return b.parent }
func (b *base) Children() []Node    { return b.children }
func (b *base) Span() errs.Span     { return b.sp }
func (b *base) IsGroupEnd() bool    { return b.groupEnd }
func (b *base) setParent(p Node)    { b.parent = p }
func (b *base) appendChild(c Node)  { b.children = append(b.children, c) }
func (b *base) setGroupEnd(v bool)  { b.groupEnd = v }
func (b *base) removeChild(target Node) {
	out := b.children[:0]
	for _, c := range b.children {
		if c != target {
			out = append(out, c)
		}
	}
	b.children = out
}

// AddChild sets child's parent and appends it to parent's children in
// source order (spec 4.3).
func AddChild(parent, child Node) {
	child.setParent(parent)
	parent.appendChild(child)
}

// HasFollowingSibling is true when parent has later children than child,
// used by the evaluator to decide whether a new subtree (e.g. for nested
// @media) must be split into its own copy rather than appended, so
// emitted CSS isn't reordered (spec 4.3).
func HasFollowingSibling(child Node) bool {
	p := child.Parent()
	if p == nil {
		return false
	}
	siblings := p.Children()
	for i, c := range siblings {
		if c == child {
			return i < len(siblings)-1
		}
	}
	return false
}

// PruneIfEmpty removes node from its parent's children if node ended up
// with no children of its own once its body finished building (Sass
// never emits an empty style/media/supports rule — e.g. a nested @media
// whose only content hoisted elsewhere leaves its wrapping rule empty).
// Reports whether node was removed.
func PruneIfEmpty(node Node) bool {
	if len(node.Children()) > 0 {
		return false
	}
	parent := node.Parent()
	if parent == nil {
		return false
	}
	parent.removeChild(node)
	return true
}

// MarkLastChildGroupEnd sets IsGroupEnd on the last child of parent, used
// when a style-rule body finishes popping (spec 4.7's "Style rule"
// contract: "When popping, sets is_group_end on the last sibling").
func MarkLastChildGroupEnd(parent Node) {
	children := parent.Children()
	if len(children) == 0 {
		return
	}
	children[len(children)-1].setGroupEnd(true)
}

// Stylesheet is the tree root.
type Stylesheet struct{ base }

func NewStylesheet(sp errs.Span) *Stylesheet { return &Stylesheet{base{sp: sp}} }
func (*Stylesheet) Kind() Kind               { return KindStylesheet }

// StyleRule is a selector-headed rule. Selector is the finalized,
// serializer-ready selector text; the extender mutates it once at
// Finalize time (spec 4.4).
type StyleRule struct {
	base
	Selector     string
	OriginalText string // pre-extension selector, for @extend bookkeeping
}

func NewStyleRule(sp errs.Span, selector string) *StyleRule {
	return &StyleRule{base: base{sp: sp}, Selector: selector, OriginalText: selector}
}
func (*StyleRule) Kind() Kind { return KindStyleRule }

// CopyWithoutChildren produces a detached shallow clone preserving
// attributes but no children (spec 4.3); the caller re-parents it. Used
// when the evaluator needs to duplicate the ancestor chain for nested
// @media/@supports/@keyframes/@at-root.
func (s *StyleRule) CopyWithoutChildren() *StyleRule {
	return &StyleRule{base: base{sp: s.sp}, Selector: s.Selector, OriginalText: s.OriginalText}
}

type AtRule struct {
	base
	Name      string
	Value     string
	Childless bool
}

func NewAtRule(sp errs.Span, name, val string, childless bool) *AtRule {
	return &AtRule{base: base{sp: sp}, Name: name, Value: val, Childless: childless}
}
func (*AtRule) Kind() Kind { return KindAtRule }

type MediaRule struct {
	base
	Queries string
}

func NewMediaRule(sp errs.Span, queries string) *MediaRule {
	return &MediaRule{base: base{sp: sp}, Queries: queries}
}
func (*MediaRule) Kind() Kind { return KindMediaRule }

func (m *MediaRule) CopyWithoutChildren() *MediaRule {
	return &MediaRule{base: base{sp: m.sp}, Queries: m.Queries}
}

type SupportsRule struct {
	base
	Condition string
}

func NewSupportsRule(sp errs.Span, condition string) *SupportsRule {
	return &SupportsRule{base: base{sp: sp}, Condition: condition}
}
func (*SupportsRule) Kind() Kind { return KindSupportsRule }

type KeyframeBlock struct {
	base
	Selectors []string
}

func NewKeyframeBlock(sp errs.Span, selectors []string) *KeyframeBlock {
	return &KeyframeBlock{base: base{sp: sp}, Selectors: selectors}
}
func (*KeyframeBlock) Kind() Kind { return KindKeyframeBlock }

// Declaration is a leaf property:value pair. ValueSpan records the span
// of just the value (distinct from the whole declaration's span) for
// source-map emission (spec 3).
type Declaration struct {
	base
	Name      string
	Value     string
	ValueSpan errs.Span
}

func NewDeclaration(sp errs.Span, name, val string, valueSpan errs.Span) *Declaration {
	return &Declaration{base: base{sp: sp}, Name: name, Value: val, ValueSpan: valueSpan}
}
func (*Declaration) Kind() Kind { return KindDeclaration }

type Import struct {
	base
	URL      string
	Supports string
	Media    string
}

func NewImport(sp errs.Span, url, supports, media string) *Import {
	return &Import{base: base{sp: sp}, URL: url, Supports: supports, Media: media}
}
func (*Import) Kind() Kind { return KindImport }

type Comment struct {
	base
	Text string
}

func NewComment(sp errs.Span, text string) *Comment { return &Comment{base: base{sp: sp}, Text: text} }
func (*Comment) Kind() Kind                         { return KindComment }
