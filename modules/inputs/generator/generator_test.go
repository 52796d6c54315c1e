package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wishbone-run/wishbone/internal/actor"
	"github.com/wishbone-run/wishbone/internal/wblog"
)

func testLogger() *wblog.Logger { return wblog.New("test", "error", "text") }

func TestGeneratorEmitsConfiguredPayloadOnInterval(t *testing.T) {
	mod, err := New(actor.Config{
		Name:       "gen",
		Parameters: map[string]any{"data": "hello", "interval_ms": 5},
	}, testLogger(), nil)
	require.NoError(t, err)

	a := mod.Actor()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.Start(ctx))
	defer a.Stop()

	q := a.Pool().GetQueue("outbox")
	e, err := q.Get(context.Background())
	require.NoError(t, err)
	data, ok := e.Get("data")
	require.True(t, ok)
	require.Equal(t, "hello", data)
}

func TestGeneratorDefaultsPayloadAndInterval(t *testing.T) {
	mod, err := New(actor.Config{Name: "gen"}, testLogger(), nil)
	require.NoError(t, err)

	a := mod.Actor()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.Start(ctx))
	defer a.Stop()

	q := a.Pool().GetQueue("outbox")
	ctxGet, cancelGet := context.WithTimeout(context.Background(), time.Second)
	defer cancelGet()
	e, err := q.Get(ctxGet)
	require.NoError(t, err)
	data, ok := e.Get("data")
	require.True(t, ok)
	require.Equal(t, "test", data)
}

type rawProtocol struct{}

func (rawProtocol) Decode(data []byte) ([]map[string]any, error) {
	return []map[string]any{{"raw": data}}, nil
}

func (rawProtocol) Encode(payload any) ([]byte, error) { return nil, nil }

func TestGeneratorDecodesThroughConfiguredProtocol(t *testing.T) {
	mod, err := New(actor.Config{
		Name:       "gen",
		Parameters: map[string]any{"data": "wire-bytes", "interval_ms": 5},
		Protocol:   rawProtocol{},
	}, testLogger(), nil)
	require.NoError(t, err)

	a := mod.Actor()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.Start(ctx))
	defer a.Stop()

	q := a.Pool().GetQueue("outbox")
	e, err := q.Get(context.Background())
	require.NoError(t, err)
	data, ok := e.Get("data.raw")
	require.True(t, ok)
	require.Equal(t, []byte("wire-bytes"), data)
}
