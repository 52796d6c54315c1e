package redislookup

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wishbone-run/wishbone/internal/registry"
)

func TestLookupDefaultsAddr(t *testing.T) {
	lookup, err := New("cache", registry.Args{})
	require.NoError(t, err)
	require.NotNil(t, lookup)
}

func TestLookupFailsWhenRedisUnreachable(t *testing.T) {
	lookup, err := New("cache", registry.Args{"addr": "127.0.0.1:1"})
	require.NoError(t, err)

	_, err = lookup("any-key")
	require.Error(t, err)
}
