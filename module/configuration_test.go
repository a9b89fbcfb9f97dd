package module

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConsumedLeftoverReportsUnmarkedKeys(t *testing.T) {
	cfg := NewConfiguration(map[string]*ConfigEntry{
		"a": {},
		"b": {},
	})
	consumed := NewConsumed()
	consumed.Mark("a")

	require.Equal(t, []string{"b"}, consumed.Leftover(cfg))
}

func TestConsumedLeftoverEmptyWhenAllMarked(t *testing.T) {
	cfg := NewConfiguration(map[string]*ConfigEntry{"a": {}})
	consumed := NewConsumed()
	consumed.Mark("a")

	require.Empty(t, consumed.Leftover(cfg))
}

func TestConsumedLeftoverNilConfigurationIsEmpty(t *testing.T) {
	consumed := NewConsumed()
	require.Empty(t, consumed.Leftover(nil))
}
