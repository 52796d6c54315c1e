// Package registry implements the Component Registry (spec section 4.6):
// a compile-time, name-indexed factory table for modules, protocols,
// template-functions, and lookups, grounded on the teacher's
// system/core.Registry (register/lookup/enumerate over a mutex-guarded map).
package registry

import (
	"fmt"
	"strings"

	"github.com/wishbone-run/wishbone/internal/wberrors"
)

// Kind enumerates the four component shapes the registry accepts.
type Kind string

const (
	KindModule   Kind = "module"
	KindProtocol Kind = "protocol"
	KindFunction Kind = "function"
	KindLookup   Kind = "lookup"
)

// Name is a parsed four-dot qualified component name:
// namespace.kind.category.name (spec section 3, "Component descriptor").
type Name struct {
	Namespace string
	Kind      Kind
	Category  string
	Name      string
}

// String renders Name back to its dotted form.
func (n Name) String() string {
	return strings.Join([]string{n.Namespace, string(n.Kind), n.Category, n.Name}, ".")
}

// ParseName splits a qualified name into its four dot-separated parts and
// validates the kind segment against the known set. A malformed name (wrong
// segment count or unknown kind) is reported as InvalidComponent.
func ParseName(qualified string) (Name, error) {
	parts := strings.Split(qualified, ".")
	if len(parts) != 4 {
		return Name{}, wberrors.InvalidComponent(qualified, "qualified name must have exactly four dot-separated segments: namespace.kind.category.name")
	}
	kind := Kind(parts[1])
	switch kind {
	case KindModule, KindProtocol, KindFunction, KindLookup:
	default:
		return Name{}, wberrors.InvalidComponent(qualified, fmt.Sprintf("unknown component kind %q", parts[1]))
	}
	return Name{Namespace: parts[0], Kind: kind, Category: parts[2], Name: parts[3]}, nil
}
