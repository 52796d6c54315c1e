// Package wbmetrics provides the Prometheus-backed metric collectors every
// Actor's metric producer task (spec section 4.3) feeds, following the
// teacher's infrastructure/metrics package: a struct of pre-registered
// collectors built once with NewWithRegistry.
package wbmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors holds the process-wide Prometheus collectors that describe
// Wishbone's own queue and actor plumbing, mirroring the teacher's
// "Metrics holds all Prometheus metrics" struct-of-collectors shape.
//
// Queue in/out/dropped are exposed as gauges rather than counters: the
// source of truth is each queue.Queue's own atomic counters, and the
// metric producer task re-reads and re-sets the cumulative value on every
// tick rather than tracking deltas.
type Collectors struct {
	QueueSize    *prometheus.GaugeVec
	QueueIn      *prometheus.GaugeVec
	QueueOut     *prometheus.GaugeVec
	QueueDropped *prometheus.GaugeVec

	EventsProcessed *prometheus.CounterVec
	EventErrors     *prometheus.CounterVec
	ProcessDuration *prometheus.HistogramVec

	ActorState *prometheus.GaugeVec
}

// New creates a Collectors registered against the default registerer.
func New() *Collectors {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a Collectors registered against registerer. A nil
// registerer skips registration entirely, which test code uses to avoid
// colliding with the global default registry across parallel tests.
func NewWithRegistry(registerer prometheus.Registerer) *Collectors {
	c := &Collectors{
		QueueSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wishbone_queue_size",
				Help: "Current number of events buffered in a queue",
			},
			[]string{"actor", "queue"},
		),
		QueueIn: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wishbone_queue_in_total",
				Help: "Cumulative events enqueued",
			},
			[]string{"actor", "queue"},
		),
		QueueOut: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wishbone_queue_out_total",
				Help: "Cumulative events dequeued",
			},
			[]string{"actor", "queue"},
		),
		QueueDropped: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wishbone_queue_dropped_total",
				Help: "Cumulative events dropped due to fall-through on a full queue",
			},
			[]string{"actor", "queue"},
		),
		EventsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wishbone_events_processed_total",
				Help: "Total events a module's consumer task has processed",
			},
			[]string{"actor"},
		),
		EventErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wishbone_event_errors_total",
				Help: "Total event processing errors, by error code",
			},
			[]string{"actor", "code"},
		),
		ProcessDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wishbone_process_duration_seconds",
				Help:    "Duration of a module's per-event processing step",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"actor"},
		),
		ActorState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wishbone_actor_state",
				Help: "Actor lifecycle state (0=initialized, 1=running, 2=stopped)",
			},
			[]string{"actor"},
		),
	}

	if registerer != nil {
		registerer.MustRegister(
			c.QueueSize,
			c.QueueIn,
			c.QueueOut,
			c.QueueDropped,
			c.EventsProcessed,
			c.EventErrors,
			c.ProcessDuration,
			c.ActorState,
		)
	}

	return c
}

// ObserveQueue updates the gauge family for a single named queue owned by
// actor, from a queue.Stats snapshot.
func (c *Collectors) ObserveQueue(actor, queueName string, size int, in, out, dropped uint64) {
	c.QueueSize.WithLabelValues(actor, queueName).Set(float64(size))
	c.QueueIn.WithLabelValues(actor, queueName).Set(float64(in))
	c.QueueOut.WithLabelValues(actor, queueName).Set(float64(out))
	c.QueueDropped.WithLabelValues(actor, queueName).Set(float64(dropped))
}

// The ActorState* constants map the three lifecycle states to the
// ActorState gauge's numeric encoding.
const (
	ActorStateInitialized = 0
	ActorStateRunning     = 1
	ActorStateStopped     = 2
)

// SetActorState records actor's current lifecycle state.
func (c *Collectors) SetActorState(actor string, state int) {
	c.ActorState.WithLabelValues(actor).Set(float64(state))
}
