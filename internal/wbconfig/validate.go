package wbconfig

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

// LogsFunnel and MetricsFunnel are the implicit funnel module instance
// names the router injects (spec section 4.7). Reserved: user module names
// may not start with "_".
const (
	LogsFunnel    = "_logs"
	MetricsFunnel = "_metrics"
)

var structValidator = validator.New()

// Connection is one parsed routing-table entry.
type Connection struct {
	SourceModule, SourceQueue           string
	DestinationModule, DestinationQueue string
}

// Validate runs struct-tag validation plus every cross-reference rule spec
// section 4.7/6 names: unknown top-level keys are rejected earlier during
// decode (Parse); here we check reserved names, dangling references, and
// routing-table shape/injectivity. Every failure accumulates into a single
// go-multierror so a user sees every problem in one pass, the way the
// teacher's infrastructure/service validate.go layers checks atop
// structural decoding.
func Validate(cfg *Config) error {
	var result *multierror.Error

	if err := structValidator.Struct(cfg); err != nil {
		result = multierror.Append(result, err)
	}

	for name := range cfg.Modules {
		if strings.HasPrefix(name, "_") {
			result = multierror.Append(result, fmt.Errorf("module instance name %q is reserved (leading underscore)", name))
		}
	}

	for name, mod := range cfg.Modules {
		if mod.Protocol != "" {
			if _, ok := cfg.Protocols[mod.Protocol]; !ok {
				result = multierror.Append(result, fmt.Errorf("module %q references undeclared protocol %q", name, mod.Protocol))
			}
		}
		for queueName, fns := range mod.Functions {
			for _, fn := range fns {
				if _, ok := cfg.Functions[fn]; !ok {
					result = multierror.Append(result, fmt.Errorf("module %q queue %q references undeclared function %q", name, queueName, fn))
				}
			}
		}
	}

	connections, err := ParseRoutingTable(cfg.RoutingTable)
	if err != nil {
		result = multierror.Append(result, err)
	} else {
		if err := validateConnections(cfg, connections); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// ParseRoutingTable parses every "src_module.src_queue -> dst_module.dst_queue"
// entry, failing on any entry missing the arrow or a dot on either side
// (spec section 6 validation rules / section 8 scenario 6).
func ParseRoutingTable(entries []string) ([]Connection, error) {
	var result *multierror.Error
	conns := make([]Connection, 0, len(entries))

	for _, entry := range entries {
		parts := strings.SplitN(entry, "->", 2)
		if len(parts) != 2 {
			result = multierror.Append(result, fmt.Errorf("routing-table entry %q missing '->'", entry))
			continue
		}
		src := strings.TrimSpace(parts[0])
		dst := strings.TrimSpace(parts[1])

		srcModule, srcQueue, ok1 := splitDot(src)
		dstModule, dstQueue, ok2 := splitDot(dst)
		if !ok1 || !ok2 {
			result = multierror.Append(result, fmt.Errorf("routing-table entry %q must have a dot on each side of '->'", entry))
			continue
		}
		conns = append(conns, Connection{
			SourceModule: srcModule, SourceQueue: srcQueue,
			DestinationModule: dstModule, DestinationQueue: dstQueue,
		})
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return conns, nil
}

func splitDot(s string) (module, queue string, ok bool) {
	idx := strings.LastIndex(s, ".")
	if idx <= 0 || idx == len(s)-1 {
		return "", "", false
	}
	return s[:idx], s[idx+1:], true
}

// validateConnections enforces spec section 8 invariant 4: a queue endpoint
// appears as a source in at most one connection, and as a destination in
// at most one connection. It also checks every referenced module is
// declared.
func validateConnections(cfg *Config, conns []Connection) error {
	var result *multierror.Error

	sources := make(map[string]bool)
	destinations := make(map[string]bool)

	knownModule := func(name string) bool {
		if name == LogsFunnel || name == MetricsFunnel {
			return true
		}
		_, ok := cfg.Modules[name]
		return ok
	}

	for _, c := range conns {
		if !knownModule(c.SourceModule) {
			result = multierror.Append(result, fmt.Errorf("routing table references undeclared module %q", c.SourceModule))
		}
		if !knownModule(c.DestinationModule) {
			result = multierror.Append(result, fmt.Errorf("routing table references undeclared module %q", c.DestinationModule))
		}

		srcKey := c.SourceModule + "." + c.SourceQueue
		if sources[srcKey] {
			result = multierror.Append(result, fmt.Errorf("queue %q used as a connection source more than once", srcKey))
		}
		sources[srcKey] = true

		dstKey := c.DestinationModule + "." + c.DestinationQueue
		if destinations[dstKey] {
			result = multierror.Append(result, fmt.Errorf("queue %q used as a connection destination more than once", dstKey))
		}
		destinations[dstKey] = true
	}

	return result.ErrorOrNil()
}
