// Package stdout implements the simplest output module: a consumer on
// "inbox" that prints each event's data payload to standard output, used
// in the spec's end-to-end "Generator -> STDOUT" scenario. When a protocol
// is declared on the module (spec section 4.4), the payload is run through
// the actor's EncodeOutput first and the resulting bytes are printed
// instead of the raw data value.
package stdout

import (
	"context"
	"fmt"
	"os"

	"github.com/wishbone-run/wishbone/internal/actor"
	"github.com/wishbone-run/wishbone/internal/event"
	"github.com/wishbone-run/wishbone/internal/queue"
	"github.com/wishbone-run/wishbone/internal/registry"
	"github.com/wishbone-run/wishbone/internal/wblog"
	"github.com/wishbone-run/wishbone/internal/wbmetrics"
)

type module struct{ a *actor.Actor }

func (m module) Actor() *actor.Actor { return m.a }

// New satisfies registry.ModuleFactory. No parameters are recognized; every
// event consumed on "inbox" is printed as one line to os.Stdout.
func New(cfg actor.Config, logger *wblog.Logger, collectors *wbmetrics.Collectors) (registry.Module, error) {
	a := actor.New(cfg, logger, collectors)
	a.Pool().CreateQueue("inbox", queue.DefaultCapacity)

	a.RegisterConsumer("inbox", func(ctx context.Context, e *event.Event) error {
		if cfg.Protocol != nil {
			out, err := a.EncodeOutput(e)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(append(out, '\n'))
			return err
		}
		data, _ := e.Get("data")
		_, err := fmt.Fprintln(os.Stdout, data)
		return err
	})

	return module{a: a}, nil
}
