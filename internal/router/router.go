// Package router implements the Router (spec section 4.8): instantiating
// every declared protocol/function/lookup/module from a validated
// wbconfig.Config, wiring the routing table via queue adoption and the
// implicit _logs/_metrics funnels via background drainers, and
// orchestrating the
// two-phase start/stop sequence. Grounded on the teacher's
// system/core.LifecycleManager (dependency-ordered start, reverse-order
// stop with rollback on failure).
package router

import (
	"fmt"
	"time"

	"github.com/wishbone-run/wishbone/internal/actor"
	"github.com/wishbone-run/wishbone/internal/registry"
	"github.com/wishbone-run/wishbone/internal/wbconfig"
	"github.com/wishbone-run/wishbone/internal/wberrors"
	"github.com/wishbone-run/wishbone/internal/wblog"
	"github.com/wishbone-run/wishbone/internal/wbmetrics"
)

// Router owns every instantiated Actor plus the parsed connection graph,
// and drives the start-up/shutdown algorithms of spec section 4.8.
type Router struct {
	cfg        *wbconfig.Config
	reg        *registry.Registry
	collectors *wbmetrics.Collectors

	modules     map[string]registry.Module
	protocols   map[string]registry.Protocol
	connections []wbconfig.Connection

	logsSink    *wblog.Sink
	logStyle    wbconfig.LogStyle
	funnelNames []string
}

// New builds a Router bound to cfg and reg. It does not instantiate
// anything yet; call Build then Start.
func New(cfg *wbconfig.Config, reg *registry.Registry, collectors *wbmetrics.Collectors) *Router {
	return &Router{
		cfg:        cfg,
		reg:        reg,
		collectors: collectors,
		modules:    make(map[string]registry.Module),
		protocols:  make(map[string]registry.Protocol),
	}
}

// Build runs the instantiate-and-wire half of the start-up algorithm
// (spec section 4.8 steps 1-3): it does not start any actor yet, so a
// caller can inspect the assembled graph (e.g. for introspection) before
// committing to Start.
func (r *Router) Build() error {
	if err := r.buildProtocols(); err != nil {
		return err
	}

	lookupFuncs, err := r.buildLookups()
	if err != nil {
		return err
	}

	for name, spec := range r.cfg.Modules {
		if err := r.buildModule(name, spec, lookupFuncs); err != nil {
			return err
		}
	}

	if err := r.injectFunnels(); err != nil {
		return err
	}

	connections, err := wbconfig.ParseRoutingTable(r.cfg.RoutingTable)
	if err != nil {
		return err
	}
	connections = append(connections, r.implicitConnections()...)
	r.connections = connections

	for _, c := range connections {
		srcMod, ok := r.modules[c.SourceModule]
		if !ok {
			return fmt.Errorf("router: routing table references undeclared module %q", c.SourceModule)
		}
		dstMod, ok := r.modules[c.DestinationModule]
		if !ok {
			return fmt.Errorf("router: routing table references undeclared module %q", c.DestinationModule)
		}
		if err := srcMod.Actor().Connect(c.SourceQueue, dstMod.Actor(), c.DestinationQueue); err != nil {
			return err
		}
	}

	return nil
}

func (r *Router) buildProtocols() error {
	for name, spec := range r.cfg.Protocols {
		factory, err := r.reg.GetProtocolFactory(spec.Protocol)
		if err != nil {
			return err
		}
		instance, err := factory(name, registry.Args(spec.Arguments))
		if err != nil {
			return err
		}
		r.protocols[name] = instance
	}
	return nil
}

func (r *Router) buildLookups() (map[string]actor.LookupFunc, error) {
	out := make(map[string]actor.LookupFunc)
	for name, spec := range r.cfg.Lookups {
		factory, err := r.reg.GetLookupFactory(spec.Lookup)
		if err != nil {
			return nil, err
		}
		fn, err := factory(name, registry.Args(spec.Arguments))
		if err != nil {
			return nil, err
		}
		out[name] = fn
	}
	return out, nil
}

func (r *Router) buildModule(name string, spec wbconfig.ModuleSpec, lookups map[string]actor.LookupFunc) error {
	factory, err := r.reg.GetModuleFactory(spec.Module)
	if err != nil {
		return err
	}

	chains, err := r.buildFunctionChains(spec)
	if err != nil {
		return err
	}

	cfg := actor.Config{
		Name:             name,
		MetricsFrequency: time.Duration(r.cfg.MetricsFreq) * time.Second,
		Parameters:       spec.Arguments,
		FunctionChains:   chains,
		Lookups:          lookups,
	}

	if spec.Protocol != "" {
		instance, ok := r.Protocol(spec.Protocol)
		if !ok {
			return fmt.Errorf("router: module %q references undeclared protocol %q", name, spec.Protocol)
		}
		cfg.ProtocolName = spec.Protocol
		cfg.Protocol = instance
		cfg.ProtocolEvent = r.cfg.Protocols[spec.Protocol].Event
	}

	logger := wblog.New(name, "info", "text")
	mod, err := factory(cfg, logger, r.collectors)
	if err != nil {
		return wberrors.ModuleInitFailure(name, err.Error())
	}

	r.modules[name] = mod
	return nil
}

func (r *Router) buildFunctionChains(spec wbconfig.ModuleSpec) (map[string][]actor.FunctionChainEntry, error) {
	chains := make(map[string][]actor.FunctionChainEntry)
	for queueName, fnNames := range spec.Functions {
		entries := make([]actor.FunctionChainEntry, 0, len(fnNames))
		for _, fnName := range fnNames {
			fnSpec, ok := r.cfg.Functions[fnName]
			if !ok {
				return nil, fmt.Errorf("router: queue %q references undeclared function %q", queueName, fnName)
			}
			factory, err := r.reg.GetFunctionFactory(fnSpec.Function)
			if err != nil {
				return nil, err
			}
			fn, err := factory(registry.Args(fnSpec.Arguments))
			if err != nil {
				return nil, err
			}
			entries = append(entries, actor.FunctionChainEntry{Name: fnName, Fn: fn})
		}
		chains[queueName] = entries
	}
	return chains, nil
}

// Actors exposes the assembled module actors, keyed by instance name,
// primarily for introspection.
func (r *Router) Actors() map[string]*actor.Actor {
	out := make(map[string]*actor.Actor, len(r.modules))
	for name, mod := range r.modules {
		out[name] = mod.Actor()
	}
	return out
}

// Protocol returns the named protocol instance, for modules that need to
// resolve their declared protocol reference outside of Build.
func (r *Router) Protocol(name string) (registry.Protocol, bool) {
	p, ok := r.protocols[name]
	return p, ok
}

// FunnelNames returns the user-declared module names whose logs/metrics
// queues were wired into the implicit funnels, for introspection views that
// want to distinguish user modules from the router's own _logs/_metrics
// actors.
func (r *Router) FunnelNames() []string {
	return append([]string(nil), r.funnelNames...)
}
