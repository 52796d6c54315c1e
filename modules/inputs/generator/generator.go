// Package generator implements a synthetic input module: it emits one
// event carrying a fixed payload onto its "outbox" queue at a fixed
// interval, used in the spec's end-to-end "Generator -> STDOUT" scenario
// and as a development/test source more generally. When a protocol is
// declared on the module (spec section 4.4), "data" is instead treated as
// raw wire bytes and run through the actor's DecodeInput on each tick.
package generator

import (
	"context"
	"time"

	"github.com/wishbone-run/wishbone/internal/actor"
	"github.com/wishbone-run/wishbone/internal/event"
	"github.com/wishbone-run/wishbone/internal/queue"
	"github.com/wishbone-run/wishbone/internal/registry"
	"github.com/wishbone-run/wishbone/internal/wblog"
	"github.com/wishbone-run/wishbone/internal/wbmetrics"
)

// defaultInterval matches the spec's end-to-end scenario 1 ("emits event
// every 0.01s").
const defaultInterval = 10 * time.Millisecond

type module struct{ a *actor.Actor }

func (m module) Actor() *actor.Actor { return m.a }

// New satisfies registry.ModuleFactory. Recognized parameters: "data" (the
// payload to emit, default "test"), "interval_ms" (int, default 10).
func New(cfg actor.Config, logger *wblog.Logger, collectors *wbmetrics.Collectors) (registry.Module, error) {
	a := actor.New(cfg, logger, collectors)
	a.Pool().CreateQueue("outbox", queue.DefaultCapacity)

	payload := cfg.Parameters["data"]
	if payload == nil {
		payload = "test"
	}
	interval := defaultInterval
	if ms, ok := cfg.Parameters["interval_ms"].(int); ok && ms > 0 {
		interval = time.Duration(ms) * time.Millisecond
	}

	raw, _ := payload.(string)

	a.SendToBackground(func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if cfg.Protocol != nil {
					events, err := a.DecodeInput([]byte(raw))
					if err != nil {
						return err
					}
					for _, e := range events {
						if err := a.Submit(ctx, e, "outbox"); err != nil {
							return err
						}
					}
					continue
				}
				if err := a.Submit(ctx, event.New(payload), "outbox"); err != nil {
					return err
				}
			}
		}
	})

	return module{a: a}, nil
}
