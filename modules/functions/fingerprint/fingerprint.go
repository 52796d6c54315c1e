// Package fingerprint implements a per-queue function component that
// replaces an event payload with its content fingerprint, for dedup or
// integrity-tagging pipelines.
package fingerprint

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/wishbone-run/wishbone/internal/registry"
)

// New satisfies registry.FunctionFactory. The value is JSON-marshaled (so
// any payload shape is accepted) and hashed with blake2b-256; the function
// returns the hex-encoded digest, discarding the original value.
func New(registry.Args) (func(value any) (any, error), error) {
	return func(value any) (any, error) {
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("fingerprint: marshal: %w", err)
		}
		h, err := blake2b.New256(nil)
		if err != nil {
			return nil, fmt.Errorf("fingerprint: new hash: %w", err)
		}
		h.Write(data)
		return hex.EncodeToString(h.Sum(nil)), nil
	}, nil
}
