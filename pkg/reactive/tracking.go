package reactive

import (
	"runtime"
	"sync"
)

// TrackingContext holds the reactive state for a goroutine: the tracking
// gate with its saved values, and the stack of running effects.
type TrackingContext struct {
	// shouldTrack is the current gate value.
	shouldTrack bool

	// trackStack holds gate values saved by PauseTracking/EnableTracking.
	trackStack []bool

	// activeEffect is the effect that reads are attributed to.
	activeEffect *Effect

	// effectStack holds the effects currently running, innermost last.
	effectStack []*Effect
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine.
// The runtime stack header reads "goroutine <id> [...]".
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine,
// creating it if needed.
func getTrackingContext() *TrackingContext {
	gid := getGoroutineID()

	if tc, ok := trackingContexts.Load(gid); ok {
		return tc.(*TrackingContext)
	}

	tc := &TrackingContext{shouldTrack: true}
	trackingContexts.Store(gid, tc)
	return tc
}

// lookupTrackingContext returns the current goroutine's context without
// creating one. A goroutine with no context is running no effect.
func lookupTrackingContext() *TrackingContext {
	if tc, ok := trackingContexts.Load(getGoroutineID()); ok {
		return tc.(*TrackingContext)
	}
	return nil
}

// release drops the context once it holds nothing worth keeping.
func (tc *TrackingContext) release() {
	if len(tc.effectStack) == 0 && len(tc.trackStack) == 0 && tc.shouldTrack {
		trackingContexts.Delete(getGoroutineID())
	}
}

func (tc *TrackingContext) pauseTracking() {
	tc.trackStack = append(tc.trackStack, tc.shouldTrack)
	tc.shouldTrack = false
}

func (tc *TrackingContext) enableTracking() {
	tc.trackStack = append(tc.trackStack, tc.shouldTrack)
	tc.shouldTrack = true
}

func (tc *TrackingContext) resetTracking() {
	n := len(tc.trackStack)
	if n == 0 {
		tc.shouldTrack = true
		return
	}
	tc.shouldTrack = tc.trackStack[n-1]
	tc.trackStack = tc.trackStack[:n-1]
}

func (tc *TrackingContext) running(e *Effect) bool {
	for _, running := range tc.effectStack {
		if running == e {
			return true
		}
	}
	return false
}

func (tc *TrackingContext) pushEffect(e *Effect) {
	tc.effectStack = append(tc.effectStack, e)
	tc.activeEffect = e
}

func (tc *TrackingContext) popEffect() {
	tc.effectStack = tc.effectStack[:len(tc.effectStack)-1]
	tc.activeEffect = nil
	if n := len(tc.effectStack); n > 0 {
		tc.activeEffect = tc.effectStack[n-1]
	}
}

// PauseTracking saves the tracking gate and disables it. Reads made until
// the matching ResetTracking are not recorded as dependencies.
func PauseTracking() {
	getTrackingContext().pauseTracking()
}

// EnableTracking saves the tracking gate and enables it.
func EnableTracking() {
	getTrackingContext().enableTracking()
}

// ResetTracking restores the gate value saved by the last PauseTracking or
// EnableTracking. With nothing saved, tracking is enabled.
func ResetTracking() {
	tc := getTrackingContext()
	tc.resetTracking()
	tc.release()
}

// IsTracking reports whether a read made now would be recorded.
func IsTracking() bool {
	tc := lookupTrackingContext()
	return tc != nil && tc.shouldTrack && tc.activeEffect != nil
}

// ActiveEffect returns the effect that reads are currently attributed to,
// or nil.
func ActiveEffect() *Effect {
	if tc := lookupTrackingContext(); tc != nil {
		return tc.activeEffect
	}
	return nil
}

// Untracked runs fn with tracking paused.
//
// Example:
//
//	reactive.Untracked(func() {
//	    // Reading here does not subscribe the running effect.
//	    log.Println(state.Get("count"))
//	})
func Untracked(fn func()) {
	PauseTracking()
	defer ResetTracking()
	fn()
}
