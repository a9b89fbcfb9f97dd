package css

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sasscore/sasscore/errs"
)

func TestAddChildSetsParentAndOrder(t *testing.T) {
	root := NewStylesheet(errSpan())
	a := NewStyleRule(errSpan(), ".a")
	b := NewStyleRule(errSpan(), ".b")
	AddChild(root, a)
	AddChild(root, b)

	require.Equal(t, Node(root), a.Parent())
	require.Equal(t, []Node{a, b}, root.Children())
}

func TestHasFollowingSibling(t *testing.T) {
	root := NewStylesheet(errSpan())
	a := NewStyleRule(errSpan(), ".a")
	b := NewStyleRule(errSpan(), ".b")
	AddChild(root, a)
	require.False(t, HasFollowingSibling(a))
	AddChild(root, b)
	require.True(t, HasFollowingSibling(a))
	require.False(t, HasFollowingSibling(b))
}

func TestMarkLastChildGroupEnd(t *testing.T) {
	root := NewStylesheet(errSpan())
	a := NewStyleRule(errSpan(), ".a")
	b := NewStyleRule(errSpan(), ".b")
	AddChild(root, a)
	AddChild(root, b)
	MarkLastChildGroupEnd(root)
	require.False(t, a.IsGroupEnd())
	require.True(t, b.IsGroupEnd())
}

func TestCopyWithoutChildrenIsDetached(t *testing.T) {
	root := NewStylesheet(errSpan())
	a := NewStyleRule(errSpan(), ".a")
	AddChild(root, a)
	AddChild(a, NewDeclaration(errSpan(), "color", "red", errSpan()))

	clone := a.CopyWithoutChildren()
	require.Nil(t, clone.Parent())
	require.Empty(t, clone.Children())
	require.Equal(t, a.Selector, clone.Selector)
}

func TestCssSplicerPreservesOrderAndGroupEnd(t *testing.T) {
	src := NewStylesheet(errSpan())
	a := NewStyleRule(errSpan(), ".a")
	AddChild(src, a)
	AddChild(a, NewDeclaration(errSpan(), "color", "red", errSpan()))
	MarkLastChildGroupEnd(a)

	dest := NewStylesheet(errSpan())
	splicer := &CssSplicer{Dest: dest}
	splicer.Splice(a)

	require.Len(t, dest.Children(), 1)
	clonedRule := dest.Children()[0].(*StyleRule)
	require.Equal(t, ".a", clonedRule.Selector)
	require.Len(t, clonedRule.Children(), 1)
}

func errSpan() errs.Span { return errs.Span{} }
