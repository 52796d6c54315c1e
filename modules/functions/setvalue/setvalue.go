// Package setvalue implements a per-queue function component that
// discards the chain's current value and replaces it with a fixed
// configured one, ported from the original project's modify_set function.
package setvalue

import (
	"github.com/wishbone-run/wishbone/internal/registry"
)

// New satisfies registry.FunctionFactory. The "data" argument is the
// replacement value returned for every event, regardless of the chain's
// incoming value.
func New(args registry.Args) (func(value any) (any, error), error) {
	replacement := args["data"]
	return func(any) (any, error) {
		return replacement, nil
	}, nil
}
