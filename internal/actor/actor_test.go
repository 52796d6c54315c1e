package actor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wishbone-run/wishbone/internal/event"
	"github.com/wishbone-run/wishbone/internal/wberrors"
	"github.com/wishbone-run/wishbone/internal/wblog"
)

func testLogger() *wblog.Logger { return wblog.New("test", "error", "text") }

func TestLifecycleStartStop(t *testing.T) {
	a := New(Config{Name: "a"}, testLogger(), nil)
	require.Equal(t, StateInitialized, a.State())

	require.NoError(t, a.Start(context.Background()))
	require.Equal(t, StateRunning, a.State())

	require.NoError(t, a.Stop())
	require.Equal(t, StateStopped, a.State())
}

func TestStartFailsWhenFunctionChainHasNoConsumer(t *testing.T) {
	a := New(Config{
		Name: "a",
		FunctionChains: map[string][]FunctionChainEntry{
			"inbox": {{Name: "upper", Fn: func(v any) (any, error) { return v, nil }}},
		},
	}, testLogger(), nil)

	err := a.Start(context.Background())
	require.Error(t, err)
	require.True(t, wberrors.IsCode(err, wberrors.CodeModuleInitFailure))
}

func TestConsumerProcessesAndRoutesToSuccess(t *testing.T) {
	a := New(Config{Name: "a"}, testLogger(), nil)
	a.pool.CreateQueue("inbox", 4)

	processed := make(chan *event.Event, 1)
	a.RegisterConsumer("inbox", func(ctx context.Context, e *event.Event) error {
		processed <- e
		return nil
	})

	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	e := event.New("hello")
	require.NoError(t, a.Submit(context.Background(), e, "inbox"))

	select {
	case <-processed:
	case <-time.After(time.Second):
		t.Fatal("consumer did not process event")
	}

	time.Sleep(10 * time.Millisecond)
	successQueue := a.Pool().GetQueue("success")
	require.Equal(t, 1, successQueue.Size())
}

func TestConsumerRoutesErrorsToFailed(t *testing.T) {
	a := New(Config{Name: "a"}, testLogger(), nil)
	a.pool.CreateQueue("inbox", 4)

	a.RegisterConsumer("inbox", func(ctx context.Context, e *event.Event) error {
		return errors.New("boom")
	})

	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	e := event.New("hello")
	require.NoError(t, a.Submit(context.Background(), e, "inbox"))

	require.Eventually(t, func() bool {
		return a.Pool().GetQueue("failed").Size() == 1
	}, time.Second, 5*time.Millisecond)

	failed, err := a.Pool().GetQueue("failed").Get(context.Background())
	require.NoError(t, err)
	errs := failed.Errors()
	require.Equal(t, "boom", errs["a"])
}

func TestConsumerDropsExpiredEvents(t *testing.T) {
	a := New(Config{Name: "a"}, testLogger(), nil)
	a.pool.CreateQueue("inbox", 4)

	called := false
	a.RegisterConsumer("inbox", func(ctx context.Context, e *event.Event) error {
		called = true
		return nil
	})

	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	e := event.New(nil)
	e.Set("ttl", 0)
	require.NoError(t, a.Submit(context.Background(), e, "inbox"))

	time.Sleep(20 * time.Millisecond)
	require.False(t, called, "consumer fn must not run for a ttl-expired event")
	require.Equal(t, 0, a.Pool().GetQueue("success").Size())
	require.Equal(t, 0, a.Pool().GetQueue("failed").Size())
}

func TestFunctionChainSkipsOnFailureButSurvives(t *testing.T) {
	a := New(Config{
		Name: "a",
		FunctionChains: map[string][]FunctionChainEntry{
			"inbox": {
				{Name: "explode", Fn: func(v any) (any, error) { return nil, errors.New("nope") }},
			},
		},
	}, testLogger(), nil)
	a.pool.CreateQueue("inbox", 4)

	var seen any
	a.RegisterConsumer("inbox", func(ctx context.Context, e *event.Event) error {
		seen, _ = e.Get("data")
		return nil
	})

	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	e := event.New("original")
	require.NoError(t, a.Submit(context.Background(), e, "inbox"))

	require.Eventually(t, func() bool { return seen != nil }, time.Second, 5*time.Millisecond)
	require.Equal(t, "original", seen)
}

func TestConnectAdoptsDestinationQueue(t *testing.T) {
	src := New(Config{Name: "src"}, testLogger(), nil)
	dst := New(Config{Name: "dst"}, testLogger(), nil)
	dst.Pool().CreateQueue("inbox", 4)

	require.NoError(t, src.Connect("outbox", dst, "inbox"))

	e := event.New("x")
	require.NoError(t, src.Pool().GetQueue("outbox").Put(e))

	got, err := dst.Pool().GetQueue("inbox").Get(context.Background())
	require.NoError(t, err)
	require.Same(t, e, got)
}

func TestConnectFailsWhenDestinationMissing(t *testing.T) {
	src := New(Config{Name: "src"}, testLogger(), nil)
	dst := New(Config{Name: "dst"}, testLogger(), nil)

	err := src.Connect("outbox", dst, "inbox")
	require.Error(t, err)
}

func TestConnectRejectsDoubleBinding(t *testing.T) {
	src := New(Config{Name: "src"}, testLogger(), nil)
	dst1 := New(Config{Name: "dst1"}, testLogger(), nil)
	dst2 := New(Config{Name: "dst2"}, testLogger(), nil)
	dst1.Pool().CreateQueue("inbox", 4)
	dst2.Pool().CreateQueue("inbox", 4)

	require.NoError(t, src.Connect("outbox", dst1, "inbox"))
	err := src.Connect("outbox", dst2, "inbox")
	require.True(t, wberrors.IsCode(err, wberrors.CodeQueueConnected))
}

func TestSubmitBoundedShutdownOnFullQueue(t *testing.T) {
	a := New(Config{Name: "a"}, testLogger(), nil)
	a.pool.CreateQueue("inbox", 1)
	require.NoError(t, a.Start(context.Background()))

	require.NoError(t, a.Pool().GetQueue("inbox").Put(event.New("fill")))

	a.state.Store(int32(StateStopped))
	err := a.Submit(context.Background(), event.New("x"), "inbox")
	require.Error(t, err)
	require.True(t, wberrors.IsCode(err, wberrors.CodeQueueFull))
}

func TestBackgroundTaskRestartsAfterFailure(t *testing.T) {
	backoff = time.Millisecond
	defer func() { backoff = 2 * time.Second }()

	a := New(Config{Name: "a"}, testLogger(), nil)
	attempts := make(chan struct{}, 4)
	a.SendToBackground(func(ctx context.Context) error {
		attempts <- struct{}{}
		return errors.New("fail")
	})

	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	count := 0
	timeout := time.After(500 * time.Millisecond)
	for count < 2 {
		select {
		case <-attempts:
			count++
		case <-timeout:
			t.Fatal("background task did not restart after failure")
		}
	}
}

type rawProtocol struct{}

func (rawProtocol) Decode(data []byte) ([]map[string]any, error) {
	return []map[string]any{{"raw": data}}, nil
}

func (rawProtocol) Encode(payload any) ([]byte, error) {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, errors.New("not a mapping")
	}
	raw, _ := m["raw"].([]byte)
	return raw, nil
}

type fullEventProtocol struct{}

func (fullEventProtocol) Decode(data []byte) ([]map[string]any, error) {
	return []map[string]any{{"data": string(data)}}, nil
}

func (fullEventProtocol) Encode(payload any) ([]byte, error) {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, errors.New("not a mapping")
	}
	s, _ := m["data"].(string)
	return []byte(s), nil
}

func TestDecodeInputWithNoProtocolWrapsRawBytes(t *testing.T) {
	a := New(Config{Name: "a"}, testLogger(), nil)
	events, err := a.DecodeInput([]byte("hi"))
	require.NoError(t, err)
	require.Len(t, events, 1)
	data, ok := events[0].Get("data.raw")
	require.True(t, ok)
	require.Equal(t, []byte("hi"), data)
}

func TestDecodeInputWrapsUnderDataWhenProtocolEventFalse(t *testing.T) {
	a := New(Config{Name: "a", Protocol: fullEventProtocol{}}, testLogger(), nil)
	events, err := a.DecodeInput([]byte("hi"))
	require.NoError(t, err)
	require.Len(t, events, 1)
	data, ok := events[0].Get("data")
	require.True(t, ok)
	require.Equal(t, map[string]any{"data": "hi"}, data)
}

func TestDecodeInputSlurpsFullEventWhenProtocolEventTrue(t *testing.T) {
	a := New(Config{Name: "a", Protocol: fullEventProtocol{}, ProtocolEvent: true}, testLogger(), nil)
	events, err := a.DecodeInput([]byte("hi"))
	require.NoError(t, err)
	require.Len(t, events, 1)
	data, ok := events[0].Get("data")
	require.True(t, ok)
	require.Equal(t, "hi", data)
}

func TestDecodeInputSlurpRejectsMissingDataKey(t *testing.T) {
	a := New(Config{Name: "a", Protocol: rawProtocol{}, ProtocolEvent: true}, testLogger(), nil)
	_, err := a.DecodeInput([]byte("hi"))
	require.Error(t, err)
	require.True(t, wberrors.IsCode(err, wberrors.CodeInvalidEventFormat))
}

func TestEncodeOutputWithNoProtocolUnwrapsRawBytes(t *testing.T) {
	a := New(Config{Name: "a"}, testLogger(), nil)
	e := event.New(map[string]any{"raw": []byte("bye")})
	out, err := a.EncodeOutput(e)
	require.NoError(t, err)
	require.Equal(t, []byte("bye"), out)
}

func TestEncodeOutputUsesConfiguredProtocol(t *testing.T) {
	a := New(Config{Name: "a", Protocol: rawProtocol{}}, testLogger(), nil)
	e := event.New(map[string]any{"raw": []byte("bye")})
	out, err := a.EncodeOutput(e)
	require.NoError(t, err)
	require.Equal(t, []byte("bye"), out)
}

func TestEncodeOutputDumpsFullEventWhenProtocolEventTrue(t *testing.T) {
	a := New(Config{Name: "a", Protocol: fullEventProtocol{}, ProtocolEvent: true}, testLogger(), nil)
	e := event.New("ignored")
	e.Set("data", "hello")
	out, err := a.EncodeOutput(e)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), out)
}
