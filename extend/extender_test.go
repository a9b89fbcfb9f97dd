package extend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sasscore/sasscore/errs"
	"github.com/sasscore/sasscore/selector"
)

func parseOne(t *testing.T, text string) selector.List {
	t.Helper()
	l, err := selector.Parse(text)
	require.NoError(t, err)
	return l
}

func TestExtendBasicScenario(t *testing.T) {
	// .a { @extend .b } .b { color: red } => .a, .b { color: red }
	e := New()
	bRule := e.AddSelector(parseOne(t, ".b"), errs.Span{}, nil)
	aSel := parseOne(t, ".a").Complexes[0]
	e.AddExtension(aSel, selector.Simple{Text: ".b"}, errs.Span{}, nil, false)

	require.NoError(t, e.Finalize())
	require.Equal(t, ".a, .b", bRule.Selector.String())
}

func TestExtendCompoundSelectorRemainder(t *testing.T) {
	// .x.b { color: red } extended by .a => .x.a, .x.b
	e := New()
	rule := e.AddSelector(parseOne(t, ".x.b"), errs.Span{}, nil)
	aSel := parseOne(t, ".a").Complexes[0]
	e.AddExtension(aSel, selector.Simple{Text: ".b"}, errs.Span{}, nil, false)

	require.NoError(t, e.Finalize())
	require.Equal(t, ".x.a, .x.b", rule.Selector.String())
}

func TestUnsatisfiedNonOptionalExtendErrors(t *testing.T) {
	e := New()
	e.AddSelector(parseOne(t, ".other"), errs.Span{}, nil)
	aSel := parseOne(t, ".a").Complexes[0]
	e.AddExtension(aSel, selector.Simple{Text: ".missing"}, errs.Span{}, nil, false)

	err := e.Finalize()
	require.Error(t, err)
}

func TestOptionalExtendNeverErrors(t *testing.T) {
	e := New()
	e.AddSelector(parseOne(t, ".other"), errs.Span{}, nil)
	aSel := parseOne(t, ".a").Complexes[0]
	e.AddExtension(aSel, selector.Simple{Text: ".missing"}, errs.Span{}, nil, true)

	require.NoError(t, e.Finalize())
}

func TestExtendRespectsMediaScope(t *testing.T) {
	e := New()
	rule := e.AddSelector(parseOne(t, ".b"), errs.Span{}, []string{"screen"})
	aSel := parseOne(t, ".a").Complexes[0]
	e.AddExtension(aSel, selector.Simple{Text: ".b"}, errs.Span{}, nil, true)

	require.NoError(t, e.Finalize())
	// The extension was declared at top level (no media scope) so it
	// does not apply to a selector recorded inside @media screen.
	require.Equal(t, ".b", rule.Selector.String())
}

func TestAddExtensionsPropagatesDownstream(t *testing.T) {
	upstream := New()
	rule := upstream.AddSelector(parseOne(t, ".b"), errs.Span{}, nil)

	downstream := New()
	aSel := parseOne(t, ".a").Complexes[0]
	downstream.AddExtension(aSel, selector.Simple{Text: ".b"}, errs.Span{}, nil, false)

	upstream.AddExtensions(downstream)
	require.NoError(t, upstream.Finalize())
	require.Equal(t, ".a, .b", rule.Selector.String())
}
