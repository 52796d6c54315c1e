// Package wbconfig implements the declarative configuration model and
// validator (spec section 4.7/6): a YAML record with protocols/functions/
// lookups/modules/routingtable sections, strict unknown-key rejection, and
// cross-reference validation. Grounded on the teacher's
// infrastructure/config package (env/YAML struct-tag loading) and
// go-playground/validator struct-tag validation.
package wbconfig

// ProtocolSpec declares a named protocol instance.
type ProtocolSpec struct {
	Protocol  string         `yaml:"protocol" validate:"required"`
	Event     bool           `yaml:"event"`
	Arguments map[string]any `yaml:"arguments"`
}

// FunctionSpec declares a named function instance.
type FunctionSpec struct {
	Function  string         `yaml:"function" validate:"required"`
	Arguments map[string]any `yaml:"arguments"`
}

// LookupSpec declares a named lookup instance.
type LookupSpec struct {
	Lookup    string         `yaml:"lookup" validate:"required"`
	Arguments map[string]any `yaml:"arguments"`
}

// ModuleSpec declares a named module instance.
type ModuleSpec struct {
	Module      string              `yaml:"module" validate:"required"`
	Protocol    string              `yaml:"protocol"`
	Description string              `yaml:"description"`
	Arguments   map[string]any      `yaml:"arguments"`
	Functions   map[string][]string `yaml:"functions"`
}

// LogStyle selects the destination the implicit _logs funnel drains to
// (spec section 4.7).
type LogStyle string

const (
	LogStyleStdout LogStyle = "STDOUT"
	LogStyleSyslog LogStyle = "SYSLOG"
)

// Config is the top-level declarative record (spec section 6). yaml.v3's
// KnownFields(true) decoder option rejects unknown top-level keys; see
// Load in loader.go.
type Config struct {
	Protocols    map[string]ProtocolSpec `yaml:"protocols"`
	Functions    map[string]FunctionSpec `yaml:"functions"`
	Lookups      map[string]LookupSpec   `yaml:"lookups"`
	Modules      map[string]ModuleSpec   `yaml:"modules" validate:"required"`
	RoutingTable []string                `yaml:"routingtable" validate:"required"`
	LogStyle     LogStyle                `yaml:"log_style"`
	MetricsFreq  int                     `yaml:"metrics_frequency_seconds"`
}
