package ackflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wishbone-run/wishbone/internal/actor"
	"github.com/wishbone-run/wishbone/internal/event"
	"github.com/wishbone-run/wishbone/internal/wblog"
)

func testLogger() *wblog.Logger { return wblog.New("test", "error", "text") }

func startFlow(t *testing.T) (*flow, context.Context, context.CancelFunc) {
	t.Helper()
	mod, err := New(actor.Config{Name: "ack"}, testLogger(), nil)
	require.NoError(t, err)
	f := mod.(*flow)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, f.Actor().Start(ctx))
	return f, ctx, cancel
}

func TestFirstDeliveryGoesToOutbox(t *testing.T) {
	f, ctx, cancel := startFlow(t)
	defer cancel()
	defer f.Actor().Stop()

	e := event.New("payload")
	e.Set("tmp.ack.ack_id", "fixed-id")
	require.NoError(t, f.Actor().Submit(ctx, e, "inbox"))

	getCtx, getCancel := context.WithTimeout(context.Background(), time.Second)
	defer getCancel()
	out, err := f.Actor().Pool().GetQueue("outbox").Get(getCtx)
	require.NoError(t, err)
	id, ok := out.Get("ack_id")
	require.True(t, ok)
	require.Equal(t, "fixed-id", id)
}

func TestDuplicateDeliveryIsDropped(t *testing.T) {
	f, ctx, cancel := startFlow(t)
	defer cancel()
	defer f.Actor().Stop()

	first := event.New("payload")
	first.Set("tmp.ack.ack_id", "dup-id")
	require.NoError(t, f.Actor().Submit(ctx, first, "inbox"))

	getCtx, getCancel := context.WithTimeout(context.Background(), time.Second)
	defer getCancel()
	_, err := f.Actor().Pool().GetQueue("outbox").Get(getCtx)
	require.NoError(t, err)

	second := event.New("payload")
	second.Set("tmp.ack.ack_id", "dup-id")
	require.NoError(t, f.Actor().Submit(ctx, second, "inbox"))

	getCtx2, getCancel2 := context.WithTimeout(context.Background(), time.Second)
	defer getCancel2()
	_, err = f.Actor().Pool().GetQueue("dropped").Get(getCtx2)
	require.NoError(t, err)
}

func TestAcknowledgeClearsInFlightEntry(t *testing.T) {
	f, ctx, cancel := startFlow(t)
	defer cancel()
	defer f.Actor().Stop()

	e := event.New("payload")
	e.Set("tmp.ack.ack_id", "ack-id")
	require.NoError(t, f.Actor().Submit(ctx, e, "inbox"))

	getCtx, getCancel := context.WithTimeout(context.Background(), time.Second)
	defer getCancel()
	_, err := f.Actor().Pool().GetQueue("outbox").Get(getCtx)
	require.NoError(t, err)

	ack := event.New(nil)
	ack.Set("tmp.ack.ack_id", "ack-id")
	require.NoError(t, f.Actor().Submit(ctx, ack, "acknowledge"))

	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return !f.inFlight["ack-id"]
	}, time.Second, 10*time.Millisecond)
}
