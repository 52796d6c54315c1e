// Package queue implements the bounded-FIFO contract described in spec
// section 4.1: non-blocking put with optional fall-through drop, blocking
// get, and monotone stats counters.
package queue

import (
	"context"
	"sync/atomic"

	"github.com/wishbone-run/wishbone/internal/event"
	"github.com/wishbone-run/wishbone/internal/wberrors"
)

// Stats is a snapshot of a queue's monotone counters plus its current depth.
type Stats struct {
	Capacity int
	Size     int
	In       uint64
	Out      uint64
	Dropped  uint64
}

// Queue is a fixed-capacity FIFO of Events. The zero value is not usable;
// construct with New. A Queue is safe for concurrent producers and a single
// consumer goroutine (see spec section 5 ordering guarantees: FIFO order is
// only guaranteed for a single producer/single consumer pair).
type Queue struct {
	name        string
	ch          chan *event.Event
	capacity    int
	fallThrough atomic.Bool
	in          atomic.Uint64
	out         atomic.Uint64
	dropped     atomic.Uint64
	consumers   atomic.Int32
}

// New creates a Queue with the given name and bounded capacity.
func New(name string, capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{
		name:     name,
		ch:       make(chan *event.Event, capacity),
		capacity: capacity,
	}
}

// Name returns the queue's name within its owning pool.
func (q *Queue) Name() string { return q.name }

// Put enqueues e. If the queue is at capacity and fall-through is disabled,
// it returns a QueueFull fault. If fall-through is enabled, a full queue
// silently drops e and increments the dropped counter instead of blocking.
func (q *Queue) Put(e *event.Event) error {
	select {
	case q.ch <- e:
		q.in.Add(1)
		return nil
	default:
	}
	if q.fallThrough.Load() {
		q.dropped.Add(1)
		return nil
	}
	return wberrors.QueueFull(q.name)
}

// Get blocks until an event is available or ctx is done (the caller's actor
// leaving the running state cancels ctx to guarantee bounded shutdown).
func (q *Queue) Get(ctx context.Context) (*event.Event, error) {
	select {
	case e := <-q.ch:
		q.out.Add(1)
		return e, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the number of events currently buffered.
func (q *Queue) Size() int { return len(q.ch) }

// Capacity returns the queue's fixed capacity.
func (q *Queue) Capacity() int { return q.capacity }

// Stats returns a snapshot of the queue's counters.
func (q *Queue) Stats() Stats {
	return Stats{
		Capacity: q.capacity,
		Size:     q.Size(),
		In:       q.in.Load(),
		Out:      q.out.Load(),
		Dropped:  q.dropped.Load(),
	}
}

// EnableFallThrough switches the queue into drop-on-overflow mode.
func (q *Queue) EnableFallThrough() { q.fallThrough.Store(true) }

// DisableFallThrough switches the queue back to QueueFull-on-overflow mode.
func (q *Queue) DisableFallThrough() { q.fallThrough.Store(false) }

// FallThrough reports the queue's current overflow mode.
func (q *Queue) FallThrough() bool { return q.fallThrough.Load() }

// AddConsumer/RemoveConsumer track whether any consumer task is currently
// draining this queue; the actor's consumer loop calls them around its run.
func (q *Queue) AddConsumer()    { q.consumers.Add(1) }
func (q *Queue) RemoveConsumer() { q.consumers.Add(-1) }

// HasConsumer reports whether at least one consumer is registered.
func (q *Queue) HasConsumer() bool { return q.consumers.Load() > 0 }
