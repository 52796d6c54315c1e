package script

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wishbone-run/wishbone/internal/registry"
)

func TestScriptTransformsValue(t *testing.T) {
	fn, err := New(registry.Args{"source": `function transform(value) { return value.toUpperCase(); }`})
	require.NoError(t, err)

	out, err := fn("hello")
	require.NoError(t, err)
	require.Equal(t, "HELLO", out)
}

func TestScriptRejectsMissingSource(t *testing.T) {
	_, err := New(registry.Args{})
	require.Error(t, err)
}

func TestScriptRejectsMissingTransformFunction(t *testing.T) {
	_, err := New(registry.Args{"source": `var x = 1;`})
	require.Error(t, err)
}

func TestScriptRejectsUncompilableSource(t *testing.T) {
	_, err := New(registry.Args{"source": `function transform( { `})
	require.Error(t, err)
}
