package jsonproto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wishbone-run/wishbone/internal/registry"
)

func TestDecodeSingleObject(t *testing.T) {
	p, err := New("", registry.Args{})
	require.NoError(t, err)

	out, err := p.Decode([]byte(`{"id":"u-1"}`))
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "u-1", out[0]["id"])
}

func TestDecodeArrayYieldsOnePayloadPerElement(t *testing.T) {
	p, err := New("", registry.Args{})
	require.NoError(t, err)

	out, err := p.Decode([]byte(`[{"id":"a"},{"id":"b"}]`))
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "a", out[0]["id"])
	require.Equal(t, "b", out[1]["id"])
}

func TestDecodeRespectsRootPath(t *testing.T) {
	p, err := New("", registry.Args{"root": "items"})
	require.NoError(t, err)

	out, err := p.Decode([]byte(`{"items":[{"id":"a"}]}`))
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "a", out[0]["id"])
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	p, err := New("", registry.Args{})
	require.NoError(t, err)

	_, err = p.Decode([]byte("not json"))
	require.Error(t, err)
}

func TestDecodeRejectsMissingRoot(t *testing.T) {
	p, err := New("", registry.Args{"root": "missing"})
	require.NoError(t, err)

	_, err = p.Decode([]byte(`{"items":[]}`))
	require.Error(t, err)
}

func TestEncodeMarshalsPayload(t *testing.T) {
	p := Protocol{}
	out, err := p.Encode(map[string]any{"id": "u-1"})
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"u-1"}`, string(out))
}
