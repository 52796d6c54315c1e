package router

import (
	"context"

	"github.com/wishbone-run/wishbone/internal/actor"
	"github.com/wishbone-run/wishbone/internal/event"
	"github.com/wishbone-run/wishbone/internal/queue"
	"github.com/wishbone-run/wishbone/internal/wbconfig"
	"github.com/wishbone-run/wishbone/internal/wblog"
)

// funnelModule wraps a bare *actor.Actor so it satisfies registry.Module
// without going through a component factory; the _logs/_metrics funnels
// are the router's own implicit modules, not user-declared ones.
type funnelModule struct{ a *actor.Actor }

func (f funnelModule) Actor() *actor.Actor { return f.a }

// injectFunnels builds the implicit `_logs`/`_metrics` modules (spec
// section 4.7) and wires every already-built user module's logs/metrics
// queue into them.
//
// A funnel genuinely merges N source queues into one consumer (glossary:
// "a flow module that merges many input queues into one output queue"),
// which plain queue adoption cannot express -- adoption swaps a single
// queue handle, so a second adopter would steal the slot from the first
// (spec section 8 invariant 4, "at most one connection"). Instead each
// funnel spawns one supervised background task per source module that
// drains that module's queue directly and forwards into the funnel's
// sink, which is how the implicit connections differ from routing-table
// connections in this implementation.
func (r *Router) injectFunnels() error {
	logStyle := r.cfg.LogStyle
	if logStyle == "" {
		logStyle = wbconfig.LogStyleStdout
	}
	r.logStyle = logStyle

	logsLogger := wblog.New(wbconfig.LogsFunnel, "info", "text")
	sink, err := wblog.NewSink(wblog.Style(logStyle), logsLogger)
	if err != nil {
		return err
	}
	r.logsSink = sink

	logsActor := actor.New(actor.Config{Name: wbconfig.LogsFunnel}, logsLogger, r.collectors)
	metricsActor := actor.New(actor.Config{Name: wbconfig.MetricsFunnel}, wblog.New(wbconfig.MetricsFunnel, "info", "text"), r.collectors)

	for name, mod := range r.modules {
		srcLogs := mod.Actor().Pool().GetQueue("logs")
		logsActor.SendToBackground(func(ctx context.Context) error {
			return drainInto(ctx, srcLogs, sink.Handle)
		})

		srcMetrics := mod.Actor().Pool().GetQueue("metrics")
		metricsActor.SendToBackground(func(ctx context.Context) error {
			return drainInto(ctx, srcMetrics, discardMetric)
		})

		r.funnelNames = append(r.funnelNames, name)
	}

	r.modules[wbconfig.LogsFunnel] = funnelModule{a: logsActor}
	r.modules[wbconfig.MetricsFunnel] = funnelModule{a: metricsActor}
	return nil
}

// drainInto loops Get on q until ctx is cancelled, applying handle to each
// event. It is the building block both funnels use to merge a source
// module's queue into the funnel's own processing.
func drainInto(ctx context.Context, q *queue.Queue, handle func(*event.Event) error) error {
	for {
		e, err := q.Get(ctx)
		if err != nil {
			return err
		}
		if err := handle(e); err != nil {
			return err
		}
	}
}

func discardMetric(*event.Event) error { return nil }

// implicitConnections is kept for symmetry with the routing-table
// connection list; the funnel fan-in is implemented directly against each
// source queue (see injectFunnels) rather than through actor.Connect, so
// there are no adoption-based connections to report here.
func (r *Router) implicitConnections() []wbconfig.Connection {
	return nil
}
