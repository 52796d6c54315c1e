package wbconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfigYAML() string {
	return `
modules:
  gen:
    module: wishbone.module.inputs.generator
    arguments:
      interval_ms: 10
  out:
    module: wishbone.module.outputs.stdout
routingtable:
  - "gen.outbox -> out.inbox"
`
}

func TestParseValidConfig(t *testing.T) {
	cfg, err := Parse([]byte(validConfigYAML()))
	require.NoError(t, err)
	require.Len(t, cfg.Modules, 2)
}

func TestParseRejectsUnknownTopLevelKey(t *testing.T) {
	_, err := Parse([]byte(validConfigYAML() + "\nbogus_key: true\n"))
	require.Error(t, err)
}

func TestValidateRejectsReservedModuleName(t *testing.T) {
	yaml := `
modules:
  _reserved:
    module: wishbone.module.inputs.generator
routingtable: []
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
}

func TestValidateRejectsUndeclaredProtocolReference(t *testing.T) {
	yaml := `
modules:
  gen:
    module: wishbone.module.inputs.generator
    protocol: missing_protocol
routingtable: []
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
}

func TestParseRoutingTableRejectsMissingArrow(t *testing.T) {
	_, err := ParseRoutingTable([]string{"gen.outbox out.inbox"})
	require.Error(t, err)
}

func TestParseRoutingTableRejectsMissingDot(t *testing.T) {
	_, err := ParseRoutingTable([]string{"gen.outbox -> out"})
	require.Error(t, err)
}

func TestValidateRejectsDuplicateSourceEndpoint(t *testing.T) {
	yaml := `
modules:
  gen:
    module: wishbone.module.inputs.generator
  out1:
    module: wishbone.module.outputs.stdout
  out2:
    module: wishbone.module.outputs.stdout
routingtable:
  - "gen.outbox -> out1.inbox"
  - "gen.outbox -> out2.inbox"
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
}
