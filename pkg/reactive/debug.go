package reactive

import (
	"log/slog"
	"sync/atomic"
	"time"

	rerrors "github.com/vango-dev/reactive/internal/errors"
)

// DevMode enables development-time diagnostics.
// When true:
//   - Wrapping an ineligible value, writing through a readonly facade and
//     mixing raw and reactive collection keys log warnings
//   - Per-effect OnTrack and OnTrigger hooks are called
//   - Clearing a collection passes a snapshot of its old contents to hooks
//
// Set this at startup:
//
//	func main() {
//	    reactive.DevMode = os.Getenv("REACTIVE_DEV") == "1"
//	}
var DevMode = false

var logger atomic.Pointer[slog.Logger]

// SetLogger sets the logger used for development warnings.
// A nil logger restores slog.Default().
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func getLogger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// warn logs the diagnostic registered under code when DevMode is on.
func warn(code string, args ...any) {
	if !DevMode {
		return
	}
	getLogger().Warn(rerrors.New(code).Error(), append([]any{"code", code}, args...)...)
}

// DebuggerEvent describes one dependency being recorded or one effect
// being triggered. It is informational only.
type DebuggerEvent struct {
	Effect *Effect
	Target Target
	Op     Op
	Key    Key

	// NewValue and OldValue are set for writes.
	NewValue any
	OldValue any

	// OldTarget is a snapshot of a collection before OpClear, in DevMode.
	OldTarget any
}

// Observer receives every track and trigger event plus effect lifecycle
// notifications, regardless of DevMode. Implementations must not mutate
// reactive state.
type Observer interface {
	OnTrack(event DebuggerEvent)
	OnTrigger(event DebuggerEvent)
	// OnEffectStart is called before e becomes active, so ActiveEffect
	// still reports the effect that is running it, if any.
	OnEffectStart(e *Effect)
	OnEffectEnd(e *Effect, elapsed time.Duration, panicked bool)
	OnEffectStop(e *Effect)
}

type observerHolder struct{ o Observer }

var globalObserver atomic.Pointer[observerHolder]

// SetObserver installs o as the process-wide observer and returns the
// previous one. A nil o removes the observer.
func SetObserver(o Observer) Observer {
	var next *observerHolder
	if o != nil {
		next = &observerHolder{o: o}
	}
	prev := globalObserver.Swap(next)
	if prev == nil {
		return nil
	}
	return prev.o
}

func getObserver() Observer {
	if h := globalObserver.Load(); h != nil {
		return h.o
	}
	return nil
}
