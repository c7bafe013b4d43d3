package canon

import "context"

// Observer receives events from the canonical search. Implementations must
// be safe for concurrent use when one Observer is shared by parallel calls.
// The metrics package provides a Prometheus-backed implementation.
type Observer interface {
	// OnSearchStart is called before the search of an n×k array begins.
	OnSearchStart(ctx context.Context, rows, cols int)

	// OnSearchComplete is called once per call with the final statistics and
	// the error returned to the caller, if any.
	OnSearchComplete(ctx context.Context, stats Stats, err error)
}

// NopObserver discards all events.
type NopObserver struct{}

// OnSearchStart implements Observer.
func (NopObserver) OnSearchStart(context.Context, int, int) {}

// OnSearchComplete implements Observer.
func (NopObserver) OnSearchComplete(context.Context, Stats, error) {}
