package throttle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wishbone-run/wishbone/internal/registry"
)

func TestThrottlePassesValueThrough(t *testing.T) {
	fn, err := New(registry.Args{"rate": 1000.0, "burst": 10})
	require.NoError(t, err)

	v, err := fn("payload")
	require.NoError(t, err)
	require.Equal(t, "payload", v)
}

func TestThrottleAppliesDefaultsWhenUnset(t *testing.T) {
	fn, err := New(registry.Args{})
	require.NoError(t, err)

	v, err := fn(42)
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestThrottleLimitsRate(t *testing.T) {
	fn, err := New(registry.Args{"rate": 2.0, "burst": 1})
	require.NoError(t, err)

	start := time.Now()
	_, err = fn(1)
	require.NoError(t, err)
	_, err = fn(2)
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}
