package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wishbone-run/wishbone/internal/registry"
)

func TestFingerprintIsDeterministic(t *testing.T) {
	fn, err := New(registry.Args{})
	require.NoError(t, err)

	a, err := fn(map[string]any{"id": "u-1"})
	require.NoError(t, err)
	b, err := fn(map[string]any{"id": "u-1"})
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestFingerprintDiffersForDifferentPayloads(t *testing.T) {
	fn, err := New(registry.Args{})
	require.NoError(t, err)

	a, err := fn(map[string]any{"id": "u-1"})
	require.NoError(t, err)
	b, err := fn(map[string]any{"id": "u-2"})
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestFingerprintProducesHexDigest(t *testing.T) {
	fn, err := New(registry.Args{})
	require.NoError(t, err)

	out, err := fn("x")
	require.NoError(t, err)
	s, ok := out.(string)
	require.True(t, ok)
	require.Len(t, s, 64)
}
