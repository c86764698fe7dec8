package reactive

// Wrap returns the facade of v for flavor f. Values that are not targets, or
// that are frozen or marked raw, are returned unchanged.
func Wrap(v any, f Flavor) any {
	return register(v, f)
}

// Reactive returns the deep mutable facade of t.
//
// Example:
//
//	state := reactive.Reactive(reactive.NewObject("count", 0))
//	reactive.Watch(func() { fmt.Println(state.Get("count")) })
//	state.Set("count", 1) // prints 1
func Reactive[T Target](t T) T {
	return register(t, FlavorReactive).(T)
}

// Readonly returns the deep readonly facade of t. Calling Readonly on a
// reactive facade layers a readonly facade over it, so reads still track
// through the inner facade.
func Readonly[T Target](t T) T {
	return register(t, FlavorReadonly).(T)
}

// ShallowReactive returns a facade that tracks and triggers on the top
// level only. Nested values are returned as stored.
func ShallowReactive[T Target](t T) T {
	return register(t, FlavorShallowReactive).(T)
}

// ShallowReadonly returns a facade that rejects top-level writes. Nested
// values are returned as stored.
func ShallowReadonly[T Target](t T) T {
	return register(t, FlavorShallowReadonly).(T)
}

// IsReactive reports whether v is a mutable facade, or a readonly facade
// layered over one.
func IsReactive(v any) bool {
	if IsReadonly(v) {
		return IsReactive(rawOf(v.(Target)))
	}
	m := metaOf(v)
	return m != nil && m.isProxy && !m.flavor.IsReadonly()
}

// IsReadonly reports whether v is a readonly facade.
func IsReadonly(v any) bool {
	m := metaOf(v)
	return m != nil && m.isProxy && m.flavor.IsReadonly()
}

// IsShallow reports whether v is a shallow facade.
func IsShallow(v any) bool {
	m := metaOf(v)
	return m != nil && m.isProxy && m.flavor.IsShallow()
}

// IsProxy reports whether v is a facade of any flavor.
func IsProxy(v any) bool {
	return IsReactive(v) || IsReadonly(v)
}

// IsWrapped reports whether v is a facade. With flavors given, it reports
// whether v is a facade of one of them.
func IsWrapped(v any, flavors ...Flavor) bool {
	m := metaOf(v)
	if m == nil || !m.isProxy {
		return false
	}
	if len(flavors) == 0 {
		return true
	}
	for _, f := range flavors {
		if m.flavor == f {
			return true
		}
	}
	return false
}

// ToRaw strips every facade layer from t and returns the original value.
func ToRaw[T Target](t T) T {
	return Unwrap(t).(T)
}

// Unwrap strips every facade layer from v. Non-targets are returned as is.
func Unwrap(v any) any {
	t, ok := v.(Target)
	if !ok {
		return v
	}
	for {
		inner := rawOf(t)
		if inner == nil {
			return t
		}
		t = inner
	}
}

// MarkRaw excludes t from wrapping permanently and returns it. A facade
// passed here marks the value it wraps.
func MarkRaw[T Target](t T) T {
	if m := metaOf(Unwrap(t)); m != nil {
		m.skip = true
	}
	return t
}

// IsFrozen reports whether v is a frozen target.
func IsFrozen(v any) bool {
	m := metaOf(Unwrap(v))
	return m != nil && m.frozen
}

// freeze marks the raw value behind t frozen. Readonly facades refuse.
func freeze(t Target) {
	if IsReadonly(t) {
		warn("R002", "op", "freeze")
		return
	}
	if m := metaOf(Unwrap(t)); m != nil {
		m.frozen = true
	}
}

// toReactive wraps v with the deep mutable flavor if it is a target.
func toReactive(v any) any {
	if _, ok := v.(Target); ok {
		return register(v, FlavorReactive)
	}
	return v
}

// toReadonly wraps v with the deep readonly flavor if it is a target.
func toReadonly(v any) any {
	if _, ok := v.(Target); ok {
		return register(v, FlavorReadonly)
	}
	return v
}

func wrapperFor(f Flavor) func(any) any {
	switch {
	case f.IsShallow():
		return func(v any) any { return v }
	case f.IsReadonly():
		return toReadonly
	default:
		return toReactive
	}
}
