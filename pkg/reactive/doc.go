// Package reactive provides fine-grained dependency tracking over plain
// mutable values.
//
// Values are wrapped in facades of the same Go type. Reading through a
// facade records which effect read which key; writing through it re-runs
// exactly the effects that read the changed key.
//
// # Targets
//
// Six container types can be wrapped:
//
//	user := reactive.NewObject("name", "Ada", "age", 36)
//	todos := reactive.NewArray("write", "test")
//	index := reactive.NewMap(reactive.Entry{Key: "a", Value: 1})
//	tags := reactive.NewSet("go", "reactive")
//	meta := reactive.NewWeakMap()
//	seen := reactive.NewWeakSet()
//
// # Flavors
//
// Reactive, Readonly, ShallowReactive and ShallowReadonly return the facade
// for a target. Wrapping the same target twice with the same flavor returns
// the same pointer:
//
//	state := reactive.Reactive(user)
//	state == reactive.Reactive(user) // true
//	reactive.ToRaw(state) == user    // true
//
// Deep flavors wrap nested targets lazily when they are read. Readonly
// flavors ignore writes (logging a warning in DevMode) and never track.
//
// # Effects
//
// An effect runs immediately and re-runs whenever a key it read changes:
//
//	e := reactive.Watch(func() {
//	    fmt.Println("name is", state.Get("name"))
//	})
//	state.Set("name", "Grace") // prints "name is Grace"
//	e.Stop()
//
// Dependencies are rebuilt on every run, so a branch that stops reading a
// key stops being notified about it. The WithScheduler option hands re-runs to the
// caller instead of running them inline.
//
// # Thread Safety
//
// Tracking state (the active effect, the effect stack and the tracking
// gate) is per-goroutine. Targets and their dependency maps are not
// synchronized: a group of targets and the effects reading them must be
// used from one goroutine at a time.
package reactive
