package queue

import (
	"sync"

	"github.com/wishbone-run/wishbone/internal/wberrors"
)

// reservedQueues are auto-created for every actor on construction (spec
// section 4.2): every module gets logs and metrics outlets plus the
// success/failed outlets its consumers route processed events to.
var reservedQueues = []string{"logs", "metrics", "failed", "success"}

// DefaultCapacity is the capacity of every auto-created reserved queue. It
// is not configurable per module; a queue gets another capacity only when
// it is created through CreateQueue with one.
const DefaultCapacity = 1024

// Pool is a per-actor registry of named queues (spec section 4.2,
// "QueuePool"). Queue identity matters for adoption: Adopt swaps the
// pointer held under a name rather than copying buffered events, so SPSC
// ordering survives a connect-time wiring.
type Pool struct {
	mu      sync.RWMutex
	owner   string
	queues  map[string]*Queue
	adopted map[string]bool
}

// NewPool creates a Pool pre-populated with the reserved logs/metrics/
// failed/success queues, each at DefaultCapacity.
func NewPool(owner string) *Pool {
	p := &Pool{owner: owner, queues: make(map[string]*Queue), adopted: make(map[string]bool)}
	for _, name := range reservedQueues {
		q := New(owner+"."+name, DefaultCapacity)
		// logs and metrics sit on every hot path; a backed-up funnel must
		// drop rather than stall the module it is instrumenting (spec
		// section 5, "used for logs to avoid blocking hot paths").
		if name == "logs" || name == "metrics" {
			q.EnableFallThrough()
		}
		p.queues[name] = q
	}
	return p
}

// CreateQueue adds a new named queue to the pool. It is a no-op returning
// the existing queue if name is already present, matching the teacher's
// idempotent-registration style (see system/core registry Register).
func (p *Pool) CreateQueue(name string, capacity int) *Queue {
	p.mu.Lock()
	defer p.mu.Unlock()
	if q, ok := p.queues[name]; ok {
		return q
	}
	q := New(p.owner+"."+name, capacity)
	p.queues[name] = q
	return q
}

// HasQueue reports whether name is registered in the pool.
func (p *Pool) HasQueue(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.queues[name]
	return ok
}

// GetQueue returns the named queue, or nil if it does not exist.
func (p *Pool) GetQueue(name string) *Queue {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.queues[name]
}

// ListQueues returns the names of all queues currently registered, in no
// particular order.
func (p *Pool) ListQueues() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.queues))
	for name := range p.queues {
		names = append(names, name)
	}
	return names
}

// Adopt replaces the queue held under name with q, implementing the
// connect-time queue adoption described in spec section 4.4: the
// destination actor's inbound handle becomes the exact Queue instance the
// source actor writes to, so nothing is copied and ordering is preserved.
// A name may only be adopted once; a second Adopt call on the same name
// returns QueueConnected (spec section 8 invariant 4: a destination
// endpoint participates in at most one connection).
func (p *Pool) Adopt(name string, q *Queue) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.adopted[name] {
		return wberrors.QueueConnected(p.owner, name)
	}
	p.queues[name] = q
	p.adopted[name] = true
	return nil
}

// Stats returns a snapshot of every queue's Stats, keyed by name.
func (p *Pool) Stats() map[string]Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]Stats, len(p.queues))
	for name, q := range p.queues {
		out[name] = q.Stats()
	}
	return out
}
