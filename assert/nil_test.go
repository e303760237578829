package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type thing struct{}

func TestNotNil(t *testing.T) {
	var typed *thing

	require.PanicsWithValue(t, "assertion failed: user != nil", func() { NotNil(nil, "user != nil") })
	require.Panics(t, func() { NotNil(typed, "typed") })
	require.NotPanics(t, func() { NotNil(&thing{}, "ok") })
}

func TestIsNil(t *testing.T) {
	var typed *thing

	require.NotPanics(t, func() { IsNil(typed, "typed") })
	require.NotPanics(t, func() { IsNil(nil, "nil") })
	require.PanicsWithValue(t, "assertion failed: got 1", func() { IsNil(1, "got %d", 1) })
}

func TestTrue(t *testing.T) {
	require.NotPanics(t, func() { True(true, "fine") })
	require.Panics(t, func() { True(false, "broken") })
}
