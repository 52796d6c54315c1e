// Package event defines the Event/Bulk/Metric/Log data model that flows
// through the actor runtime (see spec section 3).
package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wishbone-run/wishbone/internal/wberrors"
)

// DefaultTTL is the hop budget assigned to a freshly created event.
const DefaultTTL = 254

// CurrentVersion is the event schema version stamped on new events.
const CurrentVersion = 1

const (
	keyTimestamp = "timestamp"
	keyVersion   = "version"
	keyData      = "data"
	keyTmp       = "tmp"
	keyErrors    = "errors"
	keyTTL       = "ttl"
	keyUUID      = "uuid"
)

// reservedRoot lists the top-level keys that can never be deleted
// (testable property 5).
var reservedRoot = map[string]bool{
	keyTimestamp: true,
	keyVersion:   true,
	keyData:      true,
	keyTmp:       true,
	keyErrors:    true,
}

// nowFunc is overridable in tests.
var nowFunc = time.Now

// Event is a mutable record flowing through the pipeline. All accessors are
// safe for concurrent use; a single Event is generally owned by one consumer
// at a time, but its completion channel may be read by an unrelated waiter.
type Event struct {
	mu     sync.Mutex
	fields map[string]any

	confirmMu  sync.Mutex
	confirmSet map[string]struct{}
	done       chan struct{}
	doneOnce   sync.Once
}

// New creates an event wrapping payload under the reserved "data" key, with
// a fresh timestamp, default TTL, and a generated uuid.
func New(payload any) *Event {
	e := &Event{
		fields: map[string]any{
			keyTimestamp: stampSeconds(),
			keyVersion:   CurrentVersion,
			keyData:      payload,
			keyTmp:       map[string]any{},
			keyErrors:    map[string]any{},
			keyTTL:       DefaultTTL,
			keyUUID:      uuid.NewString(),
		},
	}
	return e
}

func stampSeconds() float64 {
	return float64(nowFunc().UnixNano()) / 1e9
}

// Slurp rebuilds an Event from a previously dumped mapping (see Dump),
// re-stamping the timestamp but preserving tmp/errors/ttl/uuid. It fails with
// InvalidEventFormat if the mapping does not carry the reserved shape.
func Slurp(m map[string]any) (*Event, error) {
	if m == nil {
		return nil, wberrors.InvalidEventFormat("nil payload")
	}
	fields := make(map[string]any, len(m)+4)
	for k, v := range m {
		fields[k] = v
	}
	if _, ok := fields[keyData]; !ok {
		return nil, wberrors.InvalidEventFormat("missing \"data\" key")
	}
	tmp, ok := asMap(fields[keyTmp])
	if !ok {
		tmp = map[string]any{}
	}
	fields[keyTmp] = tmp
	errs, ok := asMap(fields[keyErrors])
	if !ok {
		errs = map[string]any{}
	}
	fields[keyErrors] = errs
	if _, ok := fields[keyTTL]; !ok {
		fields[keyTTL] = DefaultTTL
	}
	if _, ok := fields[keyVersion]; !ok {
		fields[keyVersion] = CurrentVersion
	}
	fields[keyTimestamp] = stampSeconds()
	return &Event{fields: fields}, nil
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// Dump returns a deep-enough copy of the event's full mapping, suitable for
// template rendering or persistence via Slurp.
func (e *Event) Dump() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return deepCopyMap(e.fields)
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(nested)
		} else {
			out[k] = v
		}
	}
	return out
}

// Get resolves a dotted path against the event's full mapping.
func (e *Event) Get(path string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return getPath(e.fields, path)
}

// Set writes a dotted path, creating intermediate maps as needed.
func (e *Event) Set(path string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	setPath(e.fields, path, value)
}

// Delete removes a dotted path. It fails for the reserved root keys
// (timestamp, version, data, tmp, errors).
func (e *Event) Delete(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if reservedRoot[path] {
		return fmt.Errorf("event: %q is a reserved key and cannot be deleted", path)
	}
	deletePath(e.fields, path)
	return nil
}

// Timestamp returns the event's creation/slurp timestamp.
func (e *Event) Timestamp() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	ts, _ := e.fields[keyTimestamp].(float64)
	return ts
}

// UUID returns the event's uuid, if any.
func (e *Event) UUID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, _ := e.fields[keyUUID].(string)
	return id
}

// TTL returns the current hop budget.
func (e *Event) TTL() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ttlLocked()
}

func (e *Event) ttlLocked() int {
	switch v := e.fields[keyTTL].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// DecrementTTL applies one hop (a consumer entry, per spec section 9 design
// note "hop = consumer entry"). It returns false when the event had already
// reached zero, in which case the event should be dropped with a
// TTLExpired warning rather than forwarded.
func (e *Event) DecrementTTL() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	ttl := e.ttlLocked()
	if ttl <= 0 {
		return false
	}
	e.fields[keyTTL] = ttl - 1
	return true
}

// AddError records a per-module failure under errors.<module>.
func (e *Event) AddError(module string, info any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	errs, ok := e.fields[keyErrors].(map[string]any)
	if !ok {
		errs = map[string]any{}
		e.fields[keyErrors] = errs
	}
	errs[module] = info
}

// Errors returns a copy of the errors mapping.
func (e *Event) Errors() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	errs, ok := e.fields[keyErrors].(map[string]any)
	if !ok {
		return map[string]any{}
	}
	out := make(map[string]any, len(errs))
	for k, v := range errs {
		out[k] = v
	}
	return out
}

// RequireConfirmation records the set of module names whose consumption
// completion releases Wait. It must be called before the event enters the
// pipeline; calling it twice replaces the set and resets the waiter.
func (e *Event) RequireConfirmation(modules ...string) {
	e.confirmMu.Lock()
	defer e.confirmMu.Unlock()
	set := make(map[string]struct{}, len(modules))
	for _, m := range modules {
		set[m] = struct{}{}
	}
	e.confirmSet = set
	e.done = make(chan struct{})
	e.doneOnce = sync.Once{}
	if len(set) == 0 {
		close(e.done)
	}
}

// Confirm marks module as having finished consuming the event. When the
// confirmation set becomes empty, Wait is released.
func (e *Event) Confirm(module string) {
	e.confirmMu.Lock()
	defer e.confirmMu.Unlock()
	if e.confirmSet == nil {
		return
	}
	delete(e.confirmSet, module)
	if len(e.confirmSet) == 0 {
		e.doneOnce.Do(func() { close(e.done) })
	}
}

// RequiresConfirmationFrom reports whether module is a member of the
// outstanding confirmation set.
func (e *Event) RequiresConfirmationFrom(module string) bool {
	e.confirmMu.Lock()
	defer e.confirmMu.Unlock()
	if e.confirmSet == nil {
		return false
	}
	_, ok := e.confirmSet[module]
	return ok
}

// Wait blocks until every module in the confirmation set has confirmed, the
// context is cancelled, or no confirmation set was ever requested (in which
// case it returns immediately).
func (e *Event) Wait(ctx context.Context) error {
	e.confirmMu.Lock()
	done := e.done
	e.confirmMu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
