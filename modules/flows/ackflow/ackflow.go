// Package ackflow implements the acknowledge flow module (spec section
// 4.5): a mutex-guarded set of in-flight identifiers gates duplicate
// delivery until a matching acknowledgement arrives. Queues: inbox,
// outbox, acknowledge, dropped.
package ackflow

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/wishbone-run/wishbone/internal/actor"
	"github.com/wishbone-run/wishbone/internal/event"
	"github.com/wishbone-run/wishbone/internal/queue"
	"github.com/wishbone-run/wishbone/internal/registry"
	"github.com/wishbone-run/wishbone/internal/wblog"
	"github.com/wishbone-run/wishbone/internal/wbmetrics"
)

type flow struct {
	a *actor.Actor

	mu       sync.Mutex
	inFlight map[string]bool
}

func (f *flow) Actor() *actor.Actor { return f.a }

// New satisfies registry.ModuleFactory. An "ack_id" templated parameter
// (e.g. "${data.ack_id}") is rendered against every consumed event and
// stamped at tmp.<name>.ack_id by the actor runtime (spec section 4.3 step
// 2); when it is not configured, each inbox event instead gets a random
// 4-character token.
func New(cfg actor.Config, logger *wblog.Logger, collectors *wbmetrics.Collectors) (registry.Module, error) {
	f := &flow{inFlight: make(map[string]bool)}
	f.a = actor.New(cfg, logger, collectors)

	f.a.Pool().CreateQueue("inbox", queue.DefaultCapacity)
	f.a.Pool().CreateQueue("outbox", queue.DefaultCapacity)
	f.a.Pool().CreateQueue("acknowledge", queue.DefaultCapacity)
	f.a.Pool().CreateQueue("dropped", queue.DefaultCapacity)

	f.a.RegisterConsumer("inbox", f.handleInbox)
	f.a.RegisterConsumer("acknowledge", f.handleAcknowledge)

	return f, nil
}

func (f *flow) ackID(e *event.Event) string {
	if v, ok := e.Get("tmp." + f.a.Name() + ".ack_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return randomToken()
}

func (f *flow) handleInbox(ctx context.Context, e *event.Event) error {
	id := f.ackID(e)
	e.Set("ack_id", id)

	f.mu.Lock()
	if f.inFlight[id] {
		f.mu.Unlock()
		return f.a.Submit(ctx, e, "dropped")
	}
	f.inFlight[id] = true
	f.mu.Unlock()

	return f.a.Submit(ctx, e, "outbox")
}

func (f *flow) handleAcknowledge(ctx context.Context, e *event.Event) error {
	id := f.ackID(e)
	f.mu.Lock()
	delete(f.inFlight, id)
	f.mu.Unlock()
	return nil
}

func randomToken() string {
	buf := make([]byte, 2)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
