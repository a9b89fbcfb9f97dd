package selector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSimpleSelectorList(t *testing.T) {
	l, err := Parse(".a, .b:hover")
	require.NoError(t, err)
	require.Len(t, l.Complexes, 2)
	require.Equal(t, ".a", l.Complexes[0].String())
	require.Equal(t, ".b:hover", l.Complexes[1].String())
}

func TestParseCombinators(t *testing.T) {
	l, err := Parse(".a > .b + .c ~ .d")
	require.NoError(t, err)
	require.Len(t, l.Complexes, 1)
	comps := l.Complexes[0].Components
	require.Len(t, comps, 4)
	require.Equal(t, "", comps[0].Combinator)
	require.Equal(t, ">", comps[1].Combinator)
	require.Equal(t, "+", comps[2].Combinator)
	require.Equal(t, "~", comps[3].Combinator)
}

func TestResolveParentBareAmpersand(t *testing.T) {
	parent, err := Parse(".a")
	require.NoError(t, err)
	child, err := Parse("&:hover")
	require.NoError(t, err)
	resolved, err := ResolveParent(child, &parent)
	require.NoError(t, err)
	require.Equal(t, ".a:hover", resolved.String())
}

func TestResolveParentImplicitNesting(t *testing.T) {
	parent, err := Parse(".a")
	require.NoError(t, err)
	child, err := Parse(".b")
	require.NoError(t, err)
	resolved, err := ResolveParent(child, &parent)
	require.NoError(t, err)
	require.Equal(t, ".a .b", resolved.String())
}

func TestResolveParentTopLevelAmpersandIsError(t *testing.T) {
	child, err := Parse("&")
	require.NoError(t, err)
	_, err = ResolveParent(child, nil)
	require.Error(t, err)
}

func TestParseKeyframeSelectors(t *testing.T) {
	sels, err := ParseKeyframeSelectors("0%, 50%, to")
	require.NoError(t, err)
	require.Equal(t, []string{"0%", "50%", "to"}, sels)
}
