package setvalue

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wishbone-run/wishbone/internal/registry"
)

func TestSetValueReplacesIncomingValue(t *testing.T) {
	fn, err := New(registry.Args{"data": "fixed"})
	require.NoError(t, err)

	out, err := fn("whatever was there")
	require.NoError(t, err)
	require.Equal(t, "fixed", out)
}

func TestSetValueDefaultsToNil(t *testing.T) {
	fn, err := New(registry.Args{})
	require.NoError(t, err)

	out, err := fn("ignored")
	require.NoError(t, err)
	require.Nil(t, out)
}
