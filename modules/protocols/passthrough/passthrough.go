// Package passthrough implements a passthrough protocol that a module can
// declare explicitly: decode wraps raw bytes as a single payload, encode
// unwraps them back out. It is not installed automatically; a module with
// no protocol uses the equivalent inline fallback in actor.DecodeInput and
// actor.EncodeOutput.
package passthrough

import (
	"github.com/wishbone-run/wishbone/internal/registry"
	"github.com/wishbone-run/wishbone/internal/wberrors"
)

// Protocol is the identity codec: Decode produces exactly one payload
// carrying the raw bytes under "raw", Encode extracts that same key back
// out.
type Protocol struct{}

// New satisfies registry.ProtocolFactory; passthrough takes no arguments.
func New(string, registry.Args) (registry.Protocol, error) {
	return Protocol{}, nil
}

func (Protocol) Decode(data []byte) ([]map[string]any, error) {
	return []map[string]any{{"raw": data}}, nil
}

func (Protocol) Encode(payload any) ([]byte, error) {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, wberrors.ProtocolError("encode", nil).WithDetail("reason", "payload is not a mapping")
	}
	raw, ok := m["raw"].([]byte)
	if !ok {
		if s, ok := m["raw"].(string); ok {
			return []byte(s), nil
		}
		return nil, wberrors.ProtocolError("encode", nil).WithDetail("reason", "payload has no \"raw\" bytes")
	}
	return raw, nil
}
