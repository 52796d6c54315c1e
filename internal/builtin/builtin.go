// Package builtin registers every concrete component this repository ships
// into a registry.Registry at compile time, replacing the source runtime's
// plugin discovery with the compile-time registration spec section 9
// ("Dynamic component discovery") calls for: each component is registered
// by name here rather than discovered by scanning a plugin directory.
package builtin

import (
	"github.com/wishbone-run/wishbone/internal/registry"
	"github.com/wishbone-run/wishbone/modules/flows/ackflow"
	"github.com/wishbone-run/wishbone/modules/functions/appendfield"
	"github.com/wishbone-run/wishbone/modules/functions/fingerprint"
	"github.com/wishbone-run/wishbone/modules/functions/lowercase"
	"github.com/wishbone-run/wishbone/modules/functions/script"
	"github.com/wishbone-run/wishbone/modules/functions/setvalue"
	"github.com/wishbone-run/wishbone/modules/functions/throttle"
	"github.com/wishbone-run/wishbone/modules/inputs/cron"
	"github.com/wishbone-run/wishbone/modules/inputs/generator"
	"github.com/wishbone-run/wishbone/modules/inputs/hostmetrics"
	"github.com/wishbone-run/wishbone/modules/lookups/jsonpath"
	"github.com/wishbone-run/wishbone/modules/lookups/redislookup"
	"github.com/wishbone-run/wishbone/modules/lookups/static"
	"github.com/wishbone-run/wishbone/modules/outputs/stdout"
	"github.com/wishbone-run/wishbone/modules/protocols/jsonproto"
	"github.com/wishbone-run/wishbone/modules/protocols/passthrough"
)

// Register populates reg with every built-in module, protocol, function,
// and lookup component this repository ships.
func Register(reg *registry.Registry) {
	reg.Register("wishbone.module.inputs.generator", registry.Descriptor{
		Title: "Generator", Doc: "Emits a fixed payload on a timer.", Version: "1.0.0",
	}, registry.ModuleFactory(generator.New))

	reg.Register("wishbone.module.inputs.cron", registry.Descriptor{
		Title: "Cron", Doc: "Emits a payload on a cron schedule.", Version: "1.0.0",
	}, registry.ModuleFactory(cron.New))

	reg.Register("wishbone.module.inputs.hostmetrics", registry.Descriptor{
		Title: "Host Metrics", Doc: "Samples host CPU/memory on an interval.", Version: "1.0.0",
	}, registry.ModuleFactory(hostmetrics.New))

	reg.Register("wishbone.module.outputs.stdout", registry.Descriptor{
		Title: "Stdout", Doc: "Prints each consumed event's data to stdout.", Version: "1.0.0",
	}, registry.ModuleFactory(stdout.New))

	reg.Register("wishbone.module.flows.ackflow", registry.Descriptor{
		Title: "Acknowledge Flow", Doc: "Deduplicates events pending acknowledgement.", Version: "1.0.0",
	}, registry.ModuleFactory(ackflow.New))

	reg.Register("wishbone.protocol.codec.jsonproto", registry.Descriptor{
		Title: "JSON Protocol", Doc: "Decodes/encodes JSON documents via gjson.", Version: "1.0.0",
	}, registry.ProtocolFactory(jsonproto.New))

	reg.Register("wishbone.protocol.codec.passthrough", registry.Descriptor{
		Title: "Passthrough Protocol", Doc: "Identity codec over raw bytes.", Version: "1.0.0",
	}, registry.ProtocolFactory(passthrough.New))

	reg.Register("wishbone.lookup.data.static", registry.Descriptor{
		Title: "Static Lookup", Doc: "Fixed key/value mapping from configuration.", Version: "1.0.0",
	}, registry.LookupFactory(static.New))

	reg.Register("wishbone.lookup.data.jsonpath", registry.Descriptor{
		Title: "JSONPath Lookup", Doc: "JSONPath query over a loaded structured-data file.", Version: "1.0.0",
	}, registry.LookupFactory(jsonpath.New))

	reg.Register("wishbone.lookup.data.redis", registry.Descriptor{
		Title: "Redis Lookup", Doc: "Key lookup against a Redis string keyspace.", Version: "1.0.0",
	}, registry.LookupFactory(redislookup.New))

	reg.Register("wishbone.function.transform.throttle", registry.Descriptor{
		Title: "Throttle", Doc: "Token-bucket rate limiter.", Version: "1.0.0",
	}, registry.FunctionFactory(throttle.New))

	reg.Register("wishbone.function.transform.script", registry.Descriptor{
		Title: "Script", Doc: "User-supplied JavaScript transform, evaluated with goja.", Version: "1.0.0",
	}, registry.FunctionFactory(script.New))

	reg.Register("wishbone.function.transform.fingerprint", registry.Descriptor{
		Title: "Fingerprint", Doc: "Replaces the payload with its blake2b-256 content digest.", Version: "1.0.0",
	}, registry.FunctionFactory(fingerprint.New))

	reg.Register("wishbone.function.transform.lowercase", registry.Descriptor{
		Title: "Lowercase", Doc: "Lowercases a string value.", Version: "1.0.0",
	}, registry.FunctionFactory(lowercase.New))

	reg.Register("wishbone.function.transform.setvalue", registry.Descriptor{
		Title: "Set Value", Doc: "Replaces the value with a fixed configured one.", Version: "1.0.0",
	}, registry.FunctionFactory(setvalue.New))

	reg.Register("wishbone.function.transform.appendfield", registry.Descriptor{
		Title: "Append Field", Doc: "Appends a configured item onto a list value.", Version: "1.0.0",
	}, registry.FunctionFactory(appendfield.New))
}
