// Package hostmetrics implements an input module that samples host CPU and
// memory usage on a fixed interval and emits one event per sample onto its
// "outbox" queue.
package hostmetrics

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/wishbone-run/wishbone/internal/actor"
	"github.com/wishbone-run/wishbone/internal/event"
	"github.com/wishbone-run/wishbone/internal/queue"
	"github.com/wishbone-run/wishbone/internal/registry"
	"github.com/wishbone-run/wishbone/internal/wblog"
	"github.com/wishbone-run/wishbone/internal/wbmetrics"
)

const defaultInterval = 5 * time.Second

type module struct{ a *actor.Actor }

func (m module) Actor() *actor.Actor { return m.a }

// New satisfies registry.ModuleFactory. Optional parameter: "interval_ms"
// (int, default 5000).
func New(cfg actor.Config, logger *wblog.Logger, collectors *wbmetrics.Collectors) (registry.Module, error) {
	interval := defaultInterval
	if ms, ok := cfg.Parameters["interval_ms"].(int); ok && ms > 0 {
		interval = time.Duration(ms) * time.Millisecond
	}

	a := actor.New(cfg, logger, collectors)
	a.Pool().CreateQueue("outbox", queue.DefaultCapacity)

	a.SendToBackground(func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				sample, err := collectSample(ctx)
				if err != nil {
					continue
				}
				if err := a.Submit(ctx, event.New(sample), "outbox"); err != nil {
					return err
				}
			}
		}
	})

	return module{a: a}, nil
}

func collectSample(ctx context.Context) (map[string]any, error) {
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return nil, err
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}

	cpuPercent := 0.0
	if len(percents) > 0 {
		cpuPercent = percents[0]
	}

	return map[string]any{
		"cpu_percent":  cpuPercent,
		"mem_used":     vm.Used,
		"mem_total":    vm.Total,
		"mem_percent":  vm.UsedPercent,
	}, nil
}
