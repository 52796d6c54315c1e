package router

import (
	"sort"

	"github.com/wishbone-run/wishbone/internal/actor"
	"github.com/wishbone-run/wishbone/internal/queue"
)

// ActorStatus is a point-in-time snapshot of one actor, for the
// introspection page's /status route and the teacher-grounded
// HealthChecker/StatisticsProvider shape (SPEC_FULL.md section C).
type ActorStatus struct {
	Name   string                 `json:"name"`
	State  string                 `json:"state"`
	Queues map[string]queue.Stats `json:"queues"`
}

// Status returns every actor's current lifecycle state and queue stats,
// sorted by name for stable output.
func (r *Router) Status() []ActorStatus {
	out := make([]ActorStatus, 0, len(r.modules))
	for name, mod := range r.modules {
		out = append(out, ActorStatus{
			Name:   name,
			State:  mod.Actor().State().String(),
			Queues: mod.Actor().Pool().Stats(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Healthy reports whether every actor is in the RUNNING state.
func (r *Router) Healthy() bool {
	for _, mod := range r.modules {
		if mod.Actor().State() != actor.StateRunning {
			return false
		}
	}
	return true
}
