package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestTruthiness(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", TheNull, false},
		{"false", False, false},
		{"true", True, true},
		{"zero number", Unitless(0), true},
		{"empty string", Unquoted(""), true},
		{"empty list", List{}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, c.v.Truthy())
		})
	}
}

func TestNumberArithmetic(t *testing.T) {
	px := NewNumber(2, "px")
	one := NewNumber(1, "px")
	sum, err := Add(px, one)
	require.NoError(t, err)
	require.Equal(t, "3px", sum.CSSText())

	incompatible := NewNumber(1, "s")
	_, err = Add(px, incompatible)
	require.Error(t, err)
}

func TestNumberEqualityCoercesUnits(t *testing.T) {
	a := NewNumber(1, "in")
	b := NewNumber(96, "px")
	require.True(t, a.Equal(b))
}

func TestWithoutSlashIdempotent(t *testing.T) {
	n, err := Div(NewNumber(1, ""), NewNumber(2, ""))
	require.NoError(t, err)
	nn := n.(Number)
	require.NotNil(t, nn.AsSlash)

	once := nn.WithoutSlash()
	twice := once.WithoutSlash()
	require.Nil(t, once.AsSlash)
	require.Equal(t, once, twice)
}

func TestAsListIdempotent(t *testing.T) {
	l := List{Items: []Value{Unitless(1), Unitless(2)}, Separator: SepComma}
	once := AsList(l)
	twice := AsList(List{Items: once, Separator: SepComma})
	if diff := cmp.Diff(once, twice, cmp.Comparer(valuesEqual)); diff != "" {
		t.Fatalf("as_list not idempotent: %s", diff)
	}
}

func valuesEqual(a, b Value) bool { return a.Equal(b) }

func TestMapEqualityIgnoresInsertionOrder(t *testing.T) {
	m1 := NewMap().Set(Unquoted("a"), Unitless(1)).Set(Unquoted("b"), Unitless(2))
	m2 := NewMap().Set(Unquoted("b"), Unitless(2)).Set(Unquoted("a"), Unitless(1))
	require.True(t, m1.Equal(m2))
}

func TestStringEqualityIgnoresQuoting(t *testing.T) {
	require.True(t, Quoted("foo").Equal(Unquoted("foo")))
}

func TestArgumentListKeywordsAccess(t *testing.T) {
	al := NewArgumentList(nil, map[string]Value{"color": Unquoted("red")}, []string{"color"}, SepComma)
	require.False(t, al.WereKeywordsAccessed())
	al.MarkKeywordsAccessed()
	require.True(t, al.WereKeywordsAccessed())
}
