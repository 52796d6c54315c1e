package actor

import "time"

// timeAfter and newTicker indirect the two time.* entry points the
// background task supervisor and metric producer depend on, so tests can
// shrink backoff/interval without sleeping for the real durations.
var timeAfter = time.After

func newTicker(d time.Duration) *time.Ticker {
	if d <= 0 {
		d = time.Second
	}
	return time.NewTicker(d)
}
