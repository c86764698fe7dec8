package reactive

// identityMap maps a value to the facade created for it with one flavor.
// Entries live in the value's own header, so a value and its facade are
// reclaimed together and the map never keeps a value alive.
type identityMap struct {
	flavor Flavor
}

var (
	reactiveMap        = identityMap{flavor: FlavorReactive}
	readonlyMap        = identityMap{flavor: FlavorReadonly}
	shallowReactiveMap = identityMap{flavor: FlavorShallowReactive}
	shallowReadonlyMap = identityMap{flavor: FlavorShallowReadonly}
)

func identityMapFor(f Flavor) identityMap {
	switch f {
	case FlavorReadonly:
		return readonlyMap
	case FlavorShallowReactive:
		return shallowReactiveMap
	case FlavorShallowReadonly:
		return shallowReadonlyMap
	default:
		return reactiveMap
	}
}

func (m identityMap) get(t Target) Target {
	return t.targetMeta().proxies[m.flavor]
}

func (m identityMap) set(t, proxy Target) {
	t.targetMeta().proxies[m.flavor] = proxy
}

// register returns the facade of v for flavor f, creating it if needed.
// Values that cannot be wrapped are returned unchanged.
func register(v any, f Flavor) any {
	m := metaOf(v)
	if m == nil {
		warn("R001", "value", v)
		return v
	}
	t := v.(Target)

	// A facade is returned as is, except that a readonly facade may be
	// layered over a mutable one.
	if m.isProxy && !(f.IsReadonly() && !m.flavor.IsReadonly()) {
		return t
	}

	proxies := identityMapFor(f)
	if existing := proxies.get(t); existing != nil {
		return existing
	}

	if !m.eligible() {
		return t
	}

	proxy := t.newProxy(f)
	proxies.set(t, proxy)
	return proxy
}

// eligible reports whether the value may be wrapped.
func (m *meta) eligible() bool {
	return !m.skip && !m.frozen
}

// rawOf returns the value a facade wraps, answering only for facades that
// the registry created.
func rawOf(t Target) Target {
	m := t.targetMeta()
	if m == nil || !m.isProxy {
		return nil
	}
	inner := t.proxied()
	if inner == nil || identityMapFor(m.flavor).get(inner) != t {
		return nil
	}
	return inner
}
