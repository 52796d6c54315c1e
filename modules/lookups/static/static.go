// Package static implements the simplest lookup component: a fixed
// key-to-value mapping supplied entirely from configuration arguments.
package static

import (
	"fmt"

	"github.com/wishbone-run/wishbone/internal/actor"
	"github.com/wishbone-run/wishbone/internal/registry"
)

// New satisfies registry.LookupFactory. The "values" argument is a mapping
// of keys to arbitrary values; the returned LookupFunc resolves a template
// lookup call against that mapping, failing for unknown keys so a typo in a
// template is visible rather than silently rendering "<nil>".
func New(_ string, args registry.Args) (actor.LookupFunc, error) {
	raw, _ := args["values"].(map[string]any)
	values := make(map[string]any, len(raw))
	for k, v := range raw {
		values[k] = v
	}
	return func(key string) (any, error) {
		v, ok := values[key]
		if !ok {
			return nil, fmt.Errorf("static lookup: no value for key %q", key)
		}
		return v, nil
	}, nil
}
