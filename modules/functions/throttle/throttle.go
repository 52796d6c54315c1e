// Package throttle implements a per-queue function component that rate
// limits the pipeline by blocking until a token-bucket limiter admits the
// event (spec section 4.3 step 3, "per-queue function chain").
package throttle

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/wishbone-run/wishbone/internal/registry"
)

// New satisfies registry.FunctionFactory. Recognized arguments: "rate"
// (events per second, float64, default 100), "burst" (int, default 1).
func New(args registry.Args) (func(value any) (any, error), error) {
	r, _ := args["rate"].(float64)
	if r <= 0 {
		r = 100
	}
	burst, _ := args["burst"].(int)
	if burst <= 0 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(r), burst)

	return func(value any) (any, error) {
		if err := limiter.Wait(context.Background()); err != nil {
			return nil, fmt.Errorf("throttle: %w", err)
		}
		return value, nil
	}, nil
}
