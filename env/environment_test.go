package env

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sasscore/sasscore/value"
)

func TestPlainWriteCreatesInCurrentScope(t *testing.T) {
	e := New()
	e.Set("a", value.Unitless(1), nil, SetOptions{})
	v, ok := e.Get("a", "")
	require.True(t, ok)
	require.True(t, v.Equal(value.Unitless(1)))
}

func TestSemiGlobalScopeIsTransparentToAssignment(t *testing.T) {
	e := New()
	e.Set("x", value.Unitless(1), nil, SetOptions{})
	err := e.Scope(true, true, func() error {
		// @if-style write: should update the outer declaration scope, not
		// create a shadow inside the semi-global frame.
		e.Set("x", value.Unitless(2), nil, SetOptions{})
		return nil
	})
	require.NoError(t, err)
	v, _ := e.Get("x", "")
	require.True(t, v.Equal(value.Unitless(2)))
}

func TestGlobalFlagAlwaysTargetsGlobals(t *testing.T) {
	e := New()
	require.NoError(t, e.Scope(false, true, func() error {
		e.Set("g", value.Unitless(5), nil, SetOptions{Global: true})
		return nil
	}))
	v, ok := e.globals.vars["g"]
	require.True(t, ok)
	require.True(t, v.Value.Equal(value.Unitless(5)))
}

func TestDefaultSkipsWhenNonNullValueExists(t *testing.T) {
	e := New()
	e.Set("d", value.Unitless(1), nil, SetOptions{})
	e.Set("d", value.Unitless(2), nil, SetOptions{Default: true})
	v, _ := e.Get("d", "")
	require.True(t, v.Equal(value.Unitless(1)))
}

func TestDefaultAppliesWhenUnset(t *testing.T) {
	e := New()
	e.Set("d", value.Unitless(2), nil, SetOptions{Default: true})
	v, _ := e.Get("d", "")
	require.True(t, v.Equal(value.Unitless(2)))
}

func TestClosureCapturesScopeChainByReference(t *testing.T) {
	e := New()
	e.Set("outer", value.Unitless(1), nil, SetOptions{})
	require.NoError(t, e.Scope(false, true, func() error {
		closure := e.Closure()
		// A write to the shared outer frame after capture is visible
		// through the closure (lexical scoping, spec 4.2).
		e.Set("outer", value.Unitless(9), nil, SetOptions{})
		v, ok := closure.Get("outer", "")
		require.True(t, ok)
		require.True(t, v.Equal(value.Unitless(9)))

		// A scope pushed after the snapshot is not visible through it.
		return e.Scope(false, true, func() error {
			e.Set("inner", value.Unitless(42), nil, SetOptions{})
			_, ok := closure.Get("inner", "")
			require.False(t, ok)
			return nil
		})
	}))
}

func TestContentBindingAndMixinFrame(t *testing.T) {
	e := New()
	require.False(t, e.InMixin())
	require.False(t, e.ContentExists())

	require.NoError(t, e.AsMixin(func() error {
		require.True(t, e.InMixin())
		return e.WithContent(&ContentBinding{}, func() error {
			require.True(t, e.ContentExists())
			return nil
		})
	}))
	require.False(t, e.InMixin())
	require.False(t, e.ContentExists())
}
