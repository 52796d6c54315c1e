package registry

import (
	"github.com/wishbone-run/wishbone/internal/actor"
	"github.com/wishbone-run/wishbone/internal/wberrors"
	"github.com/wishbone-run/wishbone/internal/wblog"
	"github.com/wishbone-run/wishbone/internal/wbmetrics"
)

// Args is the argument mapping a component factory receives, decoded from
// the relevant configuration section's `arguments` map.
type Args map[string]any

// Module is what a module factory returns: a component that owns and
// exposes its own Actor runtime. The factory itself calls actor.New (using
// the actor.Config the router builds from the declaration) so it can
// register consumers and background tasks before the router starts it.
type Module interface {
	Actor() *actor.Actor
}

// Protocol is a decode/encode collaborator an input/output module owns
// (spec section 4.4). Decode turns wire bytes into zero or more payloads;
// Encode is the symmetric output-side operation.
type Protocol interface {
	Decode(data []byte) ([]map[string]any, error)
	Encode(payload any) ([]byte, error)
}

// ModuleFactory constructs a module (actor) instance, spec section 4.6's
// "actor class" shape. The router supplies the fully-built actor.Config
// (name, metrics frequency, raw parameters, function chains, lookups,
// resolved protocol) plus the logger/collectors every actor needs, so the factory's
// only job is to call actor.New and register its consumers/background
// tasks.
type ModuleFactory func(cfg actor.Config, logger *wblog.Logger, collectors *wbmetrics.Collectors) (Module, error)

// ProtocolFactory constructs a protocol codec instance.
type ProtocolFactory func(instanceName string, args Args) (Protocol, error)

// FunctionFactory is spec section 4.6's "plain callable" shape: a
// template-function takes a single value and returns a transformed value
// or an error.
type FunctionFactory func(args Args) (func(value any) (any, error), error)

// LookupFactory constructs a lookup-table accessor instance ("lookup
// class" shape), returning the same callable type the actor template
// renderer calls as a declared lookup global.
type LookupFactory func(instanceName string, args Args) (actor.LookupFunc, error)

// GetModuleFactory resolves qualifiedName and asserts it is a ModuleFactory,
// returning InvalidComponent if the registered factory has a different
// shape.
func (r *Registry) GetModuleFactory(qualifiedName string) (ModuleFactory, error) {
	e, err := r.Get(qualifiedName)
	if err != nil {
		return nil, err
	}
	f, ok := e.Factory.(ModuleFactory)
	if !ok {
		return nil, wberrors.InvalidComponent(qualifiedName, "component is not a module factory")
	}
	return f, nil
}

// GetProtocolFactory resolves qualifiedName and asserts it is a
// ProtocolFactory.
func (r *Registry) GetProtocolFactory(qualifiedName string) (ProtocolFactory, error) {
	e, err := r.Get(qualifiedName)
	if err != nil {
		return nil, err
	}
	f, ok := e.Factory.(ProtocolFactory)
	if !ok {
		return nil, wberrors.InvalidComponent(qualifiedName, "component is not a protocol factory")
	}
	return f, nil
}

// GetFunctionFactory resolves qualifiedName and asserts it is a
// FunctionFactory.
func (r *Registry) GetFunctionFactory(qualifiedName string) (FunctionFactory, error) {
	e, err := r.Get(qualifiedName)
	if err != nil {
		return nil, err
	}
	f, ok := e.Factory.(FunctionFactory)
	if !ok {
		return nil, wberrors.InvalidComponent(qualifiedName, "component is not a function factory")
	}
	return f, nil
}

// GetLookupFactory resolves qualifiedName and asserts it is a
// LookupFactory.
func (r *Registry) GetLookupFactory(qualifiedName string) (LookupFactory, error) {
	e, err := r.Get(qualifiedName)
	if err != nil {
		return nil, err
	}
	f, ok := e.Factory.(LookupFactory)
	if !ok {
		return nil, wberrors.InvalidComponent(qualifiedName, "component is not a lookup factory")
	}
	return f, nil
}
