package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wishbone-run/wishbone/internal/actor"
	"github.com/wishbone-run/wishbone/internal/wblog"
)

func testLogger() *wblog.Logger { return wblog.New("test", "error", "text") }

func TestCronRejectsMissingSchedule(t *testing.T) {
	_, err := New(actor.Config{Name: "c"}, testLogger(), nil)
	require.Error(t, err)
}

func TestCronConstructsOutboxQueueForValidSchedule(t *testing.T) {
	mod, err := New(actor.Config{
		Name:       "c",
		Parameters: map[string]any{"schedule": "* * * * *", "data": "fired"},
	}, testLogger(), nil)
	require.NoError(t, err)

	a := mod.Actor()
	require.NotNil(t, a.Pool().GetQueue("outbox"))
}

func TestCronStopsCleanlyWithoutFiring(t *testing.T) {
	mod, err := New(actor.Config{
		Name:       "c",
		Parameters: map[string]any{"schedule": "* * * * *"},
	}, testLogger(), nil)
	require.NoError(t, err)

	a := mod.Actor()
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, a.Start(ctx))
	cancel()
	require.NoError(t, a.Stop())
}
