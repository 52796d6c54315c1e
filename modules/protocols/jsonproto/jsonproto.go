// Package jsonproto implements a JSON wire protocol (spec section 4.4):
// decode turns a JSON document into one or more payload mappings, optionally
// unwrapping a configured root path first; encode marshals a payload back to
// JSON bytes.
package jsonproto

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/wishbone-run/wishbone/internal/registry"
	"github.com/wishbone-run/wishbone/internal/wberrors"
)

// Protocol decodes JSON bytes via gjson. When root is set, Decode resolves
// that path first and, if it is an array, emits one payload per element;
// otherwise the whole document (or the resolved root) is a single payload.
type Protocol struct {
	root string
}

// New satisfies registry.ProtocolFactory. Recognized arguments: "root", a
// gjson path selecting the array (or object) to decode; omitted means
// decode the whole document as one payload.
func New(_ string, args registry.Args) (registry.Protocol, error) {
	root, _ := args["root"].(string)
	return Protocol{root: root}, nil
}

func (p Protocol) Decode(data []byte) ([]map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, wberrors.InvalidEventFormat("payload is not valid JSON")
	}

	result := gjson.ParseBytes(data)
	if p.root != "" {
		result = result.Get(p.root)
		if !result.Exists() {
			return nil, wberrors.InvalidEventFormat("root path " + p.root + " not found in payload")
		}
	}

	if result.IsArray() {
		items := result.Array()
		out := make([]map[string]any, 0, len(items))
		for _, item := range items {
			m, ok := item.Value().(map[string]any)
			if !ok {
				return nil, wberrors.InvalidEventFormat("array element is not a JSON object")
			}
			out = append(out, m)
		}
		return out, nil
	}

	m, ok := result.Value().(map[string]any)
	if !ok {
		return nil, wberrors.InvalidEventFormat("payload is not a JSON object")
	}
	return []map[string]any{m}, nil
}

func (Protocol) Encode(payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, wberrors.ProtocolError("encode", err)
	}
	return data, nil
}
