package reactive

// collection is implemented by *Map, *Set, *WeakMap and *WeakSet.
type collection interface {
	Target

	// depKey maps an entry key to its dependency key.
	depKey(key any) any

	// The raw methods touch storage directly and are only called on raw
	// values. Writes return false when the value is frozen.
	rawHas(key any) bool
	rawGet(key any) any
	rawPut(key, value any) bool
	rawDelete(key any) bool
	rawClear() bool
	rawLen() int

	// lookup and contains read through the receiver's own handler when it
	// is a facade.
	lookup(key any) any
	contains(key any) bool
}

// collectionHandler intercepts method calls on collection facades.
type collectionHandler struct {
	readonly bool
	shallow  bool
	wrap     func(any) any
}

var collectionHandlers = func() [flavorCount]*collectionHandler {
	var hs [flavorCount]*collectionHandler
	for f := Flavor(0); f < flavorCount; f++ {
		hs[f] = &collectionHandler{
			readonly: f.IsReadonly(),
			shallow:  f.IsShallow(),
			wrap:     wrapperFor(f),
		}
	}
	return hs
}()

func rawCollection(c collection) collection {
	return Unwrap(c).(collection)
}

// get looks key up in the value target wraps. Both the key as given and
// its raw form are tracked, and the raw form is tried when the key itself
// is absent.
func (h *collectionHandler) get(target collection, key any) any {
	raw := rawCollection(target)
	rawKey := Unwrap(key)
	if !h.readonly {
		if IsProxy(key) {
			Track(raw, OpGet, raw.depKey(key))
		}
		Track(raw, OpGet, raw.depKey(rawKey))
	}
	if raw.rawHas(key) {
		return h.wrap(target.lookup(key))
	}
	if IsProxy(key) && raw.rawHas(rawKey) {
		return h.wrap(target.lookup(rawKey))
	}
	return nil
}

func (h *collectionHandler) has(target collection, key any) bool {
	raw := rawCollection(target)
	rawKey := Unwrap(key)
	if !h.readonly {
		if IsProxy(key) {
			Track(raw, OpHas, raw.depKey(key))
		}
		Track(raw, OpHas, raw.depKey(rawKey))
	}
	if !IsProxy(key) {
		return target.contains(key)
	}
	return target.contains(key) || target.contains(rawKey)
}

func (h *collectionHandler) size(target collection) int {
	raw := rawCollection(target)
	if !h.readonly {
		Track(raw, OpIterate, IterateKey)
	}
	return raw.rawLen()
}

// trackIterate records a dependency on the whole entry set, or on the key
// set alone for keyOnly reads.
func (h *collectionHandler) trackIterate(target collection, keyOnly bool) {
	if h.readonly {
		return
	}
	key := IterateKey
	if keyOnly {
		key = MapKeyIterateKey
	}
	Track(rawCollection(target), OpIterate, key)
}

func (h *collectionHandler) set(target collection, key, value any) bool {
	if h.readonly {
		warn("R002", "key", key, "target", typeName(target))
		return false
	}

	value = Unwrap(value)
	raw := rawCollection(target)
	hadKey := raw.rawHas(key)
	if !hadKey {
		key = Unwrap(key)
		hadKey = raw.rawHas(key)
	} else {
		checkIdentityKeys(raw, key)
	}

	oldValue := raw.rawGet(key)
	if !raw.rawPut(key, value) {
		return false
	}
	if !hadKey {
		trigger(raw, OpAdd, raw.depKey(key), value, nil, nil)
	} else if hasChanged(value, oldValue) {
		trigger(raw, OpSet, raw.depKey(key), value, oldValue, nil)
	}
	return true
}

func (h *collectionHandler) add(target collection, value any) bool {
	if h.readonly {
		warn("R002", "value", value, "target", typeName(target))
		return false
	}

	value = Unwrap(value)
	raw := rawCollection(target)
	hadKey := raw.rawHas(value)
	if !raw.rawPut(value, value) {
		return false
	}
	if !hadKey {
		trigger(raw, OpAdd, raw.depKey(value), value, nil, nil)
	}
	return true
}

func (h *collectionHandler) delete(target collection, key any) bool {
	if h.readonly {
		warn("R003", "key", key, "target", typeName(target))
		return false
	}

	raw := rawCollection(target)
	hadKey := raw.rawHas(key)
	if !hadKey {
		key = Unwrap(key)
		hadKey = raw.rawHas(key)
	} else {
		checkIdentityKeys(raw, key)
	}

	oldValue := raw.rawGet(key)
	result := raw.rawDelete(key)
	if hadKey && result {
		trigger(raw, OpDelete, raw.depKey(key), nil, oldValue, nil)
	}
	return result
}

// clear empties the collection. In DevMode the hooks receive a copy of the
// old contents made by snapshot.
func (h *collectionHandler) clear(target collection, snapshot func() any) {
	if h.readonly {
		warn("R003", "op", "clear", "target", typeName(target))
		return
	}

	raw := rawCollection(target)
	hadItems := raw.rawLen() != 0
	var oldTarget any
	if DevMode {
		oldTarget = snapshot()
	}
	if !raw.rawClear() {
		return
	}
	if hadItems {
		trigger(raw, OpClear, nil, nil, nil, oldTarget)
	}
}

// checkIdentityKeys warns when a collection holds both a facade key and the
// raw value behind it.
func checkIdentityKeys(raw collection, key any) {
	if IsProxy(key) && raw.rawHas(Unwrap(key)) {
		warn("R004", "target", typeName(raw), "key", typeName(key))
	}
}
