// Package observe provides reactive.Observer implementations for logging,
// metrics, tracing and recording.
//
// Observers are installed process-wide with reactive.SetObserver. Combine
// several with NewMulti:
//
//	rec := observe.NewRecorder(1024)
//	reactive.SetObserver(observe.NewMulti(
//	    observe.NewSlogObserver(slog.Default()),
//	    observe.NewMetrics(),
//	    rec,
//	))
package observe

import (
	"time"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// Base implements every reactive.Observer method as a no-op. Embed it to
// implement only the callbacks you need.
type Base struct{}

// OnTrack does nothing.
func (Base) OnTrack(reactive.DebuggerEvent) {}

// OnTrigger does nothing.
func (Base) OnTrigger(reactive.DebuggerEvent) {}

// OnEffectStart does nothing.
func (Base) OnEffectStart(*reactive.Effect) {}

// OnEffectEnd does nothing.
func (Base) OnEffectEnd(*reactive.Effect, time.Duration, bool) {}

// OnEffectStop does nothing.
func (Base) OnEffectStop(*reactive.Effect) {}

// Multi fans out events to multiple observers in order.
type Multi struct {
	observers []reactive.Observer
}

// NewMulti creates a Multi that forwards events to all non-nil observers.
func NewMulti(observers ...reactive.Observer) *Multi {
	filtered := make([]reactive.Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return &Multi{observers: filtered}
}

// OnTrack forwards the event to each observer.
func (m *Multi) OnTrack(event reactive.DebuggerEvent) {
	for _, obs := range m.observers {
		obs.OnTrack(event)
	}
}

// OnTrigger forwards the event to each observer.
func (m *Multi) OnTrigger(event reactive.DebuggerEvent) {
	for _, obs := range m.observers {
		obs.OnTrigger(event)
	}
}

// OnEffectStart forwards the start to each observer.
func (m *Multi) OnEffectStart(e *reactive.Effect) {
	for _, obs := range m.observers {
		obs.OnEffectStart(e)
	}
}

// OnEffectEnd forwards the end to each observer.
func (m *Multi) OnEffectEnd(e *reactive.Effect, elapsed time.Duration, panicked bool) {
	for _, obs := range m.observers {
		obs.OnEffectEnd(e, elapsed, panicked)
	}
}

// OnEffectStop forwards the stop to each observer.
func (m *Multi) OnEffectStop(e *reactive.Effect) {
	for _, obs := range m.observers {
		obs.OnEffectStop(e)
	}
}
