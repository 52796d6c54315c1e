package registry

import (
	"sort"
	"sync"

	"github.com/wishbone-run/wishbone/internal/wberrors"
)

// Descriptor is the metadata a component factory publishes about itself,
// read by getDoc/getTitle/getVersion (spec section 4.6).
type Descriptor struct {
	Title   string
	Doc     string
	Version string
}

// Entry pairs a parsed Name with its Descriptor and factory. Factory is
// stored as `any` since the four kinds have different construction
// signatures (actor class, template-function class, lookup class, plain
// callable); callers type-assert to the shape they expect after Get.
type Entry struct {
	Name       Name
	Descriptor Descriptor
	Factory    any
}

// Registry is the process-wide, read-after-discovery component table
// (spec section 4.6 / "Dynamic component discovery" redesign note: a
// compile-time registry populated by registration calls at init time,
// replacing runtime plugin discovery). Grounded on the teacher's
// system/core.Registry mutex-guarded map.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds a component factory under its qualified name. Re-registering
// the same name is a programmer error caught at init time, not a runtime
// fault, so it panics like the teacher's sync.Once-guarded init helpers do
// for duplicate wiring.
func (r *Registry) Register(qualifiedName string, descriptor Descriptor, factory any) {
	name, err := ParseName(qualifiedName)
	if err != nil {
		panic(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[qualifiedName]; exists {
		panic("registry: component already registered: " + qualifiedName)
	}
	r.entries[qualifiedName] = Entry{Name: name, Descriptor: descriptor, Factory: factory}
}

// Get resolves a qualified name to its Entry. Unknown names return
// NoSuchComponent.
func (r *Registry) Get(qualifiedName string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[qualifiedName]
	if !ok {
		return Entry{}, wberrors.NoSuchComponent(qualifiedName)
	}
	return e, nil
}

// List enumerates every registered qualified name, kind-filtered when kind
// is non-empty, sorted for deterministic output.
func (r *Registry) List(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for qn, e := range r.entries {
		if kind != "" && e.Name.Kind != kind {
			continue
		}
		names = append(names, qn)
	}
	sort.Strings(names)
	return names
}

// GetDoc, GetTitle, GetVersion extract a single metadata field, returning
// NoSuchComponent for unknown names.
func (r *Registry) GetDoc(qualifiedName string) (string, error) {
	e, err := r.Get(qualifiedName)
	if err != nil {
		return "", err
	}
	return e.Descriptor.Doc, nil
}

func (r *Registry) GetTitle(qualifiedName string) (string, error) {
	e, err := r.Get(qualifiedName)
	if err != nil {
		return "", err
	}
	return e.Descriptor.Title, nil
}

func (r *Registry) GetVersion(qualifiedName string) (string, error) {
	e, err := r.Get(qualifiedName)
	if err != nil {
		return "", err
	}
	return e.Descriptor.Version, nil
}
