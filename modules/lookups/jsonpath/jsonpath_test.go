package jsonpath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wishbone-run/wishbone/internal/registry"
)

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLookupResolvesJSONPathExpression(t *testing.T) {
	path := writeTempJSON(t, `{"users":{"u-1":{"name":"ada"}}}`)

	lookup, err := New("users", registry.Args{"file": path})
	require.NoError(t, err)

	v, err := lookup(`$.users["u-1"].name`)
	require.NoError(t, err)
	require.Equal(t, "ada", v)
}

func TestLookupRejectsMissingFileArgument(t *testing.T) {
	_, err := New("users", registry.Args{})
	require.Error(t, err)
}

func TestLookupFailsOnUnresolvableExpression(t *testing.T) {
	path := writeTempJSON(t, `{"users":{}}`)

	lookup, err := New("users", registry.Args{"file": path})
	require.NoError(t, err)

	_, err = lookup("$.users.missing.name")
	require.Error(t, err)
}
