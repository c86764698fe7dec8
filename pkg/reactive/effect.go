package reactive

import (
	"sync/atomic"
	"time"
)

// Effect is a re-runnable computation whose reads are tracked. It re-runs,
// or is handed to its scheduler, whenever a key it read during its last run
// changes.
type Effect struct {
	id uint64

	// fn is the raw computation.
	fn func() any

	// active is false once the effect has been stopped.
	active atomic.Bool

	// deps are the subscriber sets this effect belongs to, used to leave
	// them all before a re-run or on Stop.
	deps []*dep

	lazy         bool
	allowRecurse bool
	scheduler    func(*Effect)
	onTrack      func(DebuggerEvent)
	onTrigger    func(DebuggerEvent)
	onStop       func()

	// name is reported to observers.
	name string
}

// EffectOption configures an Effect.
type EffectOption interface {
	applyEffect(e *Effect)
}

type effectOptionFunc func(*Effect)

func (f effectOptionFunc) applyEffect(e *Effect) { f(e) }

// Lazy skips the initial run; the effect first runs when Run is called.
func Lazy() EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.lazy = true
	})
}

// WithScheduler hands triggered re-runs to fn instead of running the effect
// inline. fn decides when, and whether, to call e.Run.
//
// Example:
//
//	var queue []*reactive.Effect
//	reactive.Watch(render, reactive.WithScheduler(func(e *reactive.Effect) {
//	    queue = append(queue, e)
//	}))
func WithScheduler(fn func(e *Effect)) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.scheduler = fn
	})
}

// AllowRecurse lets the effect be triggered by its own writes while it is
// running. Without it, a running effect never re-triggers itself.
func AllowRecurse() EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.allowRecurse = true
	})
}

// OnTrack is called in DevMode each time the effect gains a dependency.
func OnTrack(fn func(DebuggerEvent)) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.onTrack = fn
	})
}

// OnTrigger is called in DevMode each time a write triggers the effect,
// before it runs or is scheduled.
func OnTrigger(fn func(DebuggerEvent)) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.onTrigger = fn
	})
}

// OnStop is called once, the first time the effect is stopped.
func OnStop(fn func()) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.onStop = fn
	})
}

// EffectName sets the name reported to observers.
func EffectName(name string) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.name = name
	})
}

// effectIDs numbers effects from 1.
var effectIDs atomic.Uint64

// NewEffect creates an effect running fn. Unless Lazy is given, fn runs once
// before NewEffect returns.
//
// Example:
//
//	total := reactive.NewEffect(func() any {
//	    return cart.Get("price").(int) * cart.Get("qty").(int)
//	}, reactive.Lazy())
//	fmt.Println(total.Run())
func NewEffect(fn func() any, opts ...EffectOption) *Effect {
	e := &Effect{
		id: effectIDs.Add(1),
		fn: fn,
	}
	e.active.Store(true)

	for _, opt := range opts {
		opt.applyEffect(e)
	}

	if !e.lazy {
		e.Run()
	}
	return e
}

// Watch creates and runs an effect for a function with no result.
func Watch(fn func(), opts ...EffectOption) *Effect {
	return NewEffect(func() any {
		fn()
		return nil
	}, opts...)
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Name returns the name set with EffectName.
func (e *Effect) Name() string {
	return e.name
}

// Active reports whether the effect has not been stopped.
func (e *Effect) Active() bool {
	return e.active.Load()
}

// DependencyCount returns the number of subscriber sets the effect belongs
// to after its last run.
func (e *Effect) DependencyCount() int {
	return len(e.deps)
}

// Run executes the effect and returns fn's result.
//
// A stopped effect just calls fn. An effect already running on this
// goroutine returns nil without running again. Otherwise the previous
// dependencies are dropped and fn runs with tracking enabled; the tracking
// state is restored even if fn panics.
func (e *Effect) Run() any {
	if !e.active.Load() {
		return e.fn()
	}

	tc := getTrackingContext()
	if tc.running(e) {
		return nil
	}

	// Observers see the start while the parent effect is still active.
	obs := getObserver()
	var start time.Time
	if obs != nil {
		start = time.Now()
		obs.OnEffectStart(e)
	}

	e.cleanup()
	tc.enableTracking()
	tc.pushEffect(e)

	completed := false
	defer func() {
		tc.popEffect()
		tc.resetTracking()
		tc.release()
		if obs != nil {
			obs.OnEffectEnd(e, time.Since(start), !completed)
		}
	}()

	result := e.fn()
	completed = true
	return result
}

// Stop detaches the effect from every dependency and calls its OnStop
// hook. Later calls do nothing.
func (e *Effect) Stop() {
	if !e.active.CompareAndSwap(true, false) {
		return
	}
	e.cleanup()
	if e.onStop != nil {
		e.onStop()
	}
	if obs := getObserver(); obs != nil {
		obs.OnEffectStop(e)
	}
}

// Stop stops e. It is equivalent to e.Stop().
func Stop(e *Effect) {
	e.Stop()
}

// cleanup removes the effect from every subscriber set it joined.
func (e *Effect) cleanup() {
	for _, d := range e.deps {
		d.remove(e)
	}
	e.deps = e.deps[:0]
}
