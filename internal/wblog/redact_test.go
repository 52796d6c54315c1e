package wblog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedactScrubsKeyValueSecret(t *testing.T) {
	out := Redact(`lookup failed for token=sk-abc123`)
	require.NotContains(t, out, "sk-abc123")
	require.Contains(t, out, redactionText)
}

func TestRedactScrubsBearerToken(t *testing.T) {
	out := Redact("Authorization: Bearer aaa.bbb.ccc")
	require.NotContains(t, out, "aaa.bbb.ccc")
}

func TestRedactLeavesPlainMessageUnchanged(t *testing.T) {
	require.Equal(t, "event ttl expired", Redact("event ttl expired"))
}
