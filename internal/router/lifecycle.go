package router

import (
	"context"
	"time"

	"github.com/wishbone-run/wishbone/internal/wbconfig"
)

// logsDrainPoll is how often Stop re-checks whether every logs queue has
// drained to size 0 before stopping the log pipeline (spec section 4.8
// shutdown step 2).
var logsDrainPoll = 50 * time.Millisecond

// Start runs the start-up algorithm's final step (spec section 4.8 step 4):
// every instantiated actor's Start is called so preHooks fire and consumer/
// background tasks launch. Build must have already wired the graph.
func (r *Router) Start(ctx context.Context) error {
	for _, mod := range r.modules {
		if err := mod.Actor().Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Stop runs the four-step shutdown algorithm (spec section 4.8):
//  1. stop every non-log module (not in the transitive child set of _logs);
//  2. poll until every logs queue has drained;
//  3. stop the log pipeline (_logs, _metrics, and anything downstream of
//     them);
//  4. release the block barrier (the caller's Stop returning is the
//     barrier release).
func (r *Router) Stop(ctx context.Context) error {
	logPipeline := r.logPipelineModules()

	for name, mod := range r.modules {
		if logPipeline[name] {
			continue
		}
		if err := mod.Actor().Stop(); err != nil {
			return err
		}
	}

	if err := r.waitForLogsDrained(ctx); err != nil {
		return err
	}

	for name := range logPipeline {
		mod, ok := r.modules[name]
		if !ok {
			continue
		}
		if err := mod.Actor().Stop(); err != nil {
			return err
		}
	}

	return nil
}

// logPipelineModules is the transitive child set of _logs and _metrics,
// plus _logs and _metrics themselves. getChildren(module) (spec section
// 4.8) is the transitive closure of destination modules reachable by
// following connections; in this implementation the funnels are wired by
// direct background drainers rather than routing-table connections (see
// funnels.go), so getChildren(_logs)/getChildren(_metrics) over
// r.connections is ordinarily empty and the log pipeline is just the two
// funnel actors. The traversal is still implemented generically so a
// routing-table entry that explicitly feeds a module into _logs (e.g. an
// archival module chained behind the funnel) is honored.
func (r *Router) logPipelineModules() map[string]bool {
	set := map[string]bool{wbconfig.LogsFunnel: true, wbconfig.MetricsFunnel: true}
	for _, root := range []string{wbconfig.LogsFunnel, wbconfig.MetricsFunnel} {
		for _, child := range r.getChildren(root) {
			set[child] = true
		}
	}
	return set
}

// getChildren returns the transitive closure of destination modules
// reachable from module by following r.connections.
func (r *Router) getChildren(module string) []string {
	visited := map[string]bool{}
	var walk func(string)
	walk = func(name string) {
		for _, c := range r.connections {
			if c.SourceModule == name && !visited[c.DestinationModule] {
				visited[c.DestinationModule] = true
				walk(c.DestinationModule)
			}
		}
	}
	walk(module)

	out := make([]string, 0, len(visited))
	for name := range visited {
		out = append(out, name)
	}
	return out
}

// waitForLogsDrained polls every module's logs queue until each reports
// size 0 or ctx is cancelled (spec section 4.8 shutdown step 2, bounded by
// the poll interval).
func (r *Router) waitForLogsDrained(ctx context.Context) error {
	for {
		drained := true
		for name, mod := range r.modules {
			if name == wbconfig.LogsFunnel || name == wbconfig.MetricsFunnel {
				continue
			}
			q := mod.Actor().Pool().GetQueue("logs")
			if q != nil && q.Size() > 0 {
				drained = false
				break
			}
		}
		if drained {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(logsDrainPoll):
		}
	}
}
