package actor

import (
	"fmt"

	"github.com/wishbone-run/wishbone/internal/event"
	"github.com/wishbone-run/wishbone/internal/wberrors"
)

// runConsumer implements the five-step consumer task algorithm of spec
// section 4.3.
func (a *Actor) runConsumer(c consumerRegistration) {
	defer a.wg.Done()

	q := a.pool.GetQueue(c.queueName)
	if q == nil {
		q = a.pool.CreateQueue(c.queueName, 0)
	}
	q.AddConsumer()
	defer q.RemoveConsumer()

	for a.State() == StateRunning {
		e, err := q.Get(a.runCtx)
		if err != nil {
			return
		}
		a.processEvent(c, e)
	}
}

func (a *Actor) processEvent(c consumerRegistration, e *event.Event) {
	// Step 2: render templated parameters, decrement TTL. The rendered
	// values are stamped under tmp.<actor-name> so both this consumer's fn
	// and any downstream actor can read them off the event (e.g. the
	// acknowledge flow module's ack_id, spec section 4.5).
	if rendered, err := RenderParams(a.cfg.Parameters, a.compiledParams, e, a.cfg.Lookups); err != nil {
		msg := "template render failed on queue " + c.queueName + ": " + err.Error()
		a.logger.Entry().WithField("queue", c.queueName).Warn(msg)
		a.emitLog(event.SeverityWarning, msg)
	} else {
		for key, val := range rendered {
			e.Set("tmp."+a.name+"."+key, val)
		}
	}
	if !e.DecrementTTL() {
		msg := "event " + e.UUID() + " dropped: ttl expired"
		a.logger.Entry().WithField("uuid", e.UUID()).Warn(msg)
		a.emitLog(event.SeverityWarning, msg)
		return
	}

	// Step 3: per-queue function chain, skip-on-failure.
	a.applyFunctionChain(c.queueName, e)

	// Step 4: user consumer fn.
	err := c.fn(a.runCtx, e)
	if err != nil {
		a.handleConsumerError(c, e, err)
	} else {
		if putErr := a.Submit(a.runCtx, e, "success"); putErr != nil {
			a.logger.Entry().WithField("queue", "success").Warn("submit failed: " + putErr.Error())
		}
	}

	// Step 5: release confirmation waiter if this actor is tracked.
	a.releaseConfirmation(e)
}

func (a *Actor) handleConsumerError(c consumerRegistration, e *event.Event, err error) {
	e.AddError(a.name, err.Error())
	a.logger.Entry().WithField("queue", c.queueName).WithField("error", err.Error()).Error("consumer failed")
	a.emitLog(event.SeverityError, "consumer failed on queue "+c.queueName+": "+err.Error())
	if putErr := a.Submit(a.runCtx, e, "failed"); putErr != nil {
		a.logger.Entry().WithField("queue", "failed").Warn("submit failed: " + putErr.Error())
	}
	if a.collectors != nil {
		code := "UNKNOWN"
		var f *wberrors.Fault
		if asFault(err, &f) {
			code = string(f.Code)
		}
		a.collectors.EventErrors.WithLabelValues(a.name, code).Inc()
	}
}

func asFault(err error, out **wberrors.Fault) bool {
	f, ok := err.(*wberrors.Fault)
	if ok {
		*out = f
	}
	return ok
}

func (a *Actor) applyFunctionChain(queueName string, e *event.Event) {
	chain, ok := a.cfg.FunctionChains[queueName]
	if !ok {
		return
	}
	data, _ := e.Get("data")
	for _, step := range chain {
		result, err := step.Fn(data)
		if err != nil {
			msg := "function chain step " + step.Name + " failed, skipped: " + err.Error()
			a.logger.Entry().WithField("function", step.Name).Warn(msg)
			a.emitLog(event.SeverityWarning, msg)
			continue
		}
		data = result
	}
	e.Set("data", data)
}

func (a *Actor) releaseConfirmation(e *event.Event) {
	if e.RequiresConfirmationFrom(a.name) {
		e.Confirm(a.name)
	}
}

// runBackground implements sendToBackground's supervision: on failure it
// logs and restarts after a fixed 2s backoff, unless exception-handling is
// disabled (in which case the failure propagates by letting the goroutine
// exit, exposing the panic/error to tests).
func (a *Actor) runBackground(fn BackgroundFunc) {
	defer a.wg.Done()
	for a.State() == StateRunning {
		err := a.runBackgroundOnce(fn)
		if err == nil {
			return
		}
		a.logger.Entry().WithField("error", err.Error()).Error("background task failed")
		a.emitLog(event.SeverityError, "background task failed: "+err.Error())
		if a.cfg.DisableExceptionHandling {
			return
		}
		select {
		case <-a.runCtx.Done():
			return
		case <-timeAfter(backoff):
		}
	}
}

func (a *Actor) runBackgroundOnce(fn BackgroundFunc) (err error) {
	if !a.cfg.DisableExceptionHandling {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
	}
	return fn(a.runCtx)
}

// runMetricProducer samples the queue pool every cfg.MetricsFrequency and
// emits one Metric event per stat field onto the metrics queue (spec
// section 4.3).
func (a *Actor) runMetricProducer() {
	defer a.wg.Done()
	ticker := newTicker(a.cfg.MetricsFrequency)
	defer ticker.Stop()

	for {
		select {
		case <-a.runCtx.Done():
			return
		case <-ticker.C:
			a.emitMetrics()
		}
	}
}

func (a *Actor) emitMetrics() {
	metricsQueue := a.pool.GetQueue("metrics")
	for name, stats := range a.pool.Stats() {
		if a.collectors != nil {
			a.collectors.ObserveQueue(a.name, name, stats.Size, stats.In, stats.Out, stats.Dropped)
		}
		if metricsQueue == nil {
			continue
		}
		for _, m := range []event.Metric{
			event.NewMetric("gauge", a.name, name+".size", float64(stats.Size), "events", nil),
			event.NewMetric("counter", a.name, name+".in", float64(stats.In), "events", nil),
			event.NewMetric("counter", a.name, name+".out", float64(stats.Out), "events", nil),
			event.NewMetric("counter", a.name, name+".dropped", float64(stats.Dropped), "events", nil),
		} {
			_ = metricsQueue.Put(event.New(m.AsPayload()))
		}
	}
}
