// Package appendfield implements a per-queue function component that
// appends a configured value onto a slice value, ported from the original
// project's modify_append function (there used to grow a tags array).
package appendfield

import (
	"fmt"

	"github.com/wishbone-run/wishbone/internal/registry"
)

// New satisfies registry.FunctionFactory. The "data" argument is the item
// appended onto the chain's incoming value on every call; the incoming
// value must be a []any (an empty chain typically starts from a
// "setvalue" step producing []any{}).
func New(args registry.Args) (func(value any) (any, error), error) {
	item := args["data"]
	return func(value any) (any, error) {
		slice, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("appendfield: value is not a list")
		}
		return append(append([]any{}, slice...), item), nil
	}, nil
}
