// Package cron implements a cron-scheduled input module: on every firing
// of a configured cron expression, it emits an event carrying the
// configured payload onto its "outbox" queue.
package cron

import (
	"context"
	"fmt"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/wishbone-run/wishbone/internal/actor"
	"github.com/wishbone-run/wishbone/internal/event"
	"github.com/wishbone-run/wishbone/internal/queue"
	"github.com/wishbone-run/wishbone/internal/registry"
	"github.com/wishbone-run/wishbone/internal/wblog"
	"github.com/wishbone-run/wishbone/internal/wbmetrics"
)

type module struct{ a *actor.Actor }

func (m module) Actor() *actor.Actor { return m.a }

// New satisfies registry.ModuleFactory. Required parameter: "schedule", a
// standard five-field cron expression. Optional: "data", the payload to
// emit on each firing (default nil).
func New(cfg actor.Config, logger *wblog.Logger, collectors *wbmetrics.Collectors) (registry.Module, error) {
	schedule, _ := cfg.Parameters["schedule"].(string)
	if schedule == "" {
		return nil, fmt.Errorf("cron module %q: \"schedule\" parameter is required", cfg.Name)
	}
	payload := cfg.Parameters["data"]

	a := actor.New(cfg, logger, collectors)
	a.Pool().CreateQueue("outbox", queue.DefaultCapacity)

	a.SendToBackground(func(ctx context.Context) error {
		c := robfigcron.New()
		fireErrCh := make(chan error, 1)
		_, err := c.AddFunc(schedule, func() {
			if err := a.Submit(ctx, event.New(payload), "outbox"); err != nil {
				select {
				case fireErrCh <- err:
				default:
				}
			}
		})
		if err != nil {
			return fmt.Errorf("cron module %q: invalid schedule %q: %w", cfg.Name, schedule, err)
		}

		c.Start()
		defer c.Stop()

		select {
		case <-ctx.Done():
			return nil
		case err := <-fireErrCh:
			return err
		}
	})

	return module{a: a}, nil
}
