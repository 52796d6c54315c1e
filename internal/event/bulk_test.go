package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBulkAppendAndFull(t *testing.T) {
	b := NewBulk(2, ",")
	require.NoError(t, b.Append(New("a")))
	require.NoError(t, b.Append(New("b")))
	err := b.Append(New("c"))
	require.Error(t, err)
}

func TestBulkFlatten(t *testing.T) {
	b := NewBulk(3, "|")
	for _, v := range []string{"a", "b", "c"} {
		e := New(nil)
		e.Set("data.name", v)
		require.NoError(t, b.Append(e))
	}
	require.Equal(t, "a|b|c", b.Flatten("data.name", false))
	require.Equal(t, []any{"a", "b", "c"}, b.Flatten("data.name", true))
}
