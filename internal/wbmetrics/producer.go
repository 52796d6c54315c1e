package wbmetrics

import (
	"context"
	"time"

	"github.com/wishbone-run/wishbone/internal/event"
	"github.com/wishbone-run/wishbone/internal/queue"
)

// Producer is a standalone metric sampler that samples a queue pool on a
// fixed interval, pushes the samples into Prometheus, and wraps them as
// Metric events onto the pool's own metrics queue so they flow through the
// pipeline like any other event. The actor runtime does not use it: each
// Actor runs its own equivalent metric producer loop.
type Producer struct {
	actor      string
	pool       *queue.Pool
	collectors *Collectors
	interval   time.Duration
}

// NewProducer builds a Producer for actor, sampling pool every interval.
func NewProducer(actor string, pool *queue.Pool, collectors *Collectors, interval time.Duration) *Producer {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Producer{actor: actor, pool: pool, collectors: collectors, interval: interval}
}

// Run samples on every tick until ctx is cancelled.
func (p *Producer) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.sample()
		}
	}
}

func (p *Producer) sample() {
	metricsQueue := p.pool.GetQueue("metrics")
	for name, stats := range p.pool.Stats() {
		if p.collectors != nil {
			p.collectors.ObserveQueue(p.actor, name, stats.Size, stats.In, stats.Out, stats.Dropped)
		}
		if metricsQueue == nil {
			continue
		}
		for _, m := range []event.Metric{
			event.NewMetric("gauge", p.actor, name+".size", float64(stats.Size), "events", nil),
			event.NewMetric("counter", p.actor, name+".in", float64(stats.In), "events", nil),
			event.NewMetric("counter", p.actor, name+".out", float64(stats.Out), "events", nil),
			event.NewMetric("counter", p.actor, name+".dropped", float64(stats.Dropped), "events", nil),
		} {
			_ = metricsQueue.Put(event.New(m.AsPayload()))
		}
	}
}
