// Package script implements a per-queue function component whose transform
// is a user-supplied JavaScript function, evaluated with goja (spec section
// 1's "narrow, explicitly-pluggable" function-component mechanism — not the
// template sandbox, which never runs general script; see spec section 9).
package script

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/wishbone-run/wishbone/internal/registry"
)

// New satisfies registry.FunctionFactory. The "source" argument must define
// a top-level `function transform(value) { ... return value }`; it is
// compiled once per instance and invoked once per event. A goja.Runtime is
// not safe for concurrent use, but each function chain entry already runs
// serialized on its owning actor's single consumer task, so one Runtime per
// instance is sufficient.
func New(args registry.Args) (func(value any) (any, error), error) {
	source, _ := args["source"].(string)
	if source == "" {
		return nil, fmt.Errorf("script function: \"source\" argument is required")
	}

	vm := goja.New()
	if _, err := vm.RunString(source); err != nil {
		return nil, fmt.Errorf("script function: compile: %w", err)
	}

	var transform goja.Callable
	if err := vm.ExportTo(vm.Get("transform"), &transform); err != nil {
		return nil, fmt.Errorf("script function: source must define function transform(value): %w", err)
	}

	return func(value any) (any, error) {
		result, err := transform(goja.Undefined(), vm.ToValue(value))
		if err != nil {
			return nil, fmt.Errorf("script function: %w", err)
		}
		return result.Export(), nil
	}, nil
}
