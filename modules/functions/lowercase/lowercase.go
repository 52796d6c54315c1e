// Package lowercase implements a per-queue function component that
// lowercases a string value, ported from the original project's
// modify_lowercase function.
package lowercase

import (
	"fmt"
	"strings"

	"github.com/wishbone-run/wishbone/internal/registry"
)

// New satisfies registry.FunctionFactory. No arguments are recognized; the
// chain's value must be a string.
func New(registry.Args) (func(value any) (any, error), error) {
	return func(value any) (any, error) {
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("lowercase: value is not a string")
		}
		return strings.ToLower(s), nil
	}, nil
}
