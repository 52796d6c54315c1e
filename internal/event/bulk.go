package event

import (
	"fmt"
	"strings"
	"sync"

	"github.com/wishbone-run/wishbone/internal/wberrors"
)

// Bulk is a bounded, ordered batch of Events sharing a text delimiter, used
// by modules that flatten many events into one downstream payload.
type Bulk struct {
	mu        sync.Mutex
	events    []*Event
	capacity  int
	delimiter string
}

// NewBulk creates an empty Bulk with the given capacity and delimiter.
func NewBulk(capacity int, delimiter string) *Bulk {
	if capacity <= 0 {
		capacity = 1
	}
	return &Bulk{
		events:    make([]*Event, 0, capacity),
		capacity:  capacity,
		delimiter: delimiter,
	}
}

// Append adds e to the bulk. It fails with BulkFull once capacity is reached.
func (b *Bulk) Append(e *Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) >= b.capacity {
		return wberrors.BulkFull(b.capacity)
	}
	b.events = append(b.events, e)
	return nil
}

// Len returns the number of events currently in the bulk.
func (b *Bulk) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// Events returns a snapshot slice of the contained events, in append order.
func (b *Bulk) Events() []*Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Event, len(b.events))
	copy(out, b.events)
	return out
}

// Flatten gathers the named dotted-path field from every contained event.
// When asList is true it returns a []any preserving order; otherwise it
// joins the stringified values with the bulk's delimiter.
func (b *Bulk) Flatten(field string, asList bool) any {
	events := b.Events()
	values := make([]any, 0, len(events))
	for _, e := range events {
		if v, ok := e.Get(field); ok {
			values = append(values, v)
		}
	}
	if asList {
		return values
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = toString(v)
	}
	return strings.Join(parts, b.delimiter)
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
