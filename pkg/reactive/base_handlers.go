package reactive

import "fmt"

// propertyTarget is implemented by records and arrays. Its methods operate
// on the receiver as seen from outside: on a facade they go through the
// facade's handler, on a raw value they touch the data directly.
type propertyTarget interface {
	Target
	getProp(key Key) any
	setProp(key Key, value any) bool
	deleteProp(key Key) bool
	hasProp(key Key) bool
	ownKeys() []Key
}

// baseHandler intercepts property access on records and arrays.
type baseHandler struct {
	readonly bool
	shallow  bool
	wrap     func(any) any
}

var baseHandlers = func() [flavorCount]*baseHandler {
	var hs [flavorCount]*baseHandler
	for f := Flavor(0); f < flavorCount; f++ {
		hs[f] = &baseHandler{
			readonly: f.IsReadonly(),
			shallow:  f.IsShallow(),
			wrap:     wrapperFor(f),
		}
	}
	return hs
}()

func (h *baseHandler) get(target propertyTarget, key Key) any {
	res := target.getProp(key)
	if !h.readonly {
		Track(target, OpGet, key)
	}
	return h.wrap(res)
}

func (h *baseHandler) set(target propertyTarget, key Key, value any) bool {
	if h.readonly {
		warn("R002", "key", key, "target", typeName(target))
		return false
	}

	oldValue := target.getProp(key)
	if !h.shallow {
		value = Unwrap(value)
	}

	hadKey := target.hasProp(key)
	if !target.setProp(key, value) {
		return false
	}
	if !hadKey {
		trigger(target, OpAdd, key, value, nil, nil)
	} else if hasChanged(value, oldValue) {
		trigger(target, OpSet, key, value, oldValue, nil)
	}
	return true
}

func (h *baseHandler) deleteProperty(target propertyTarget, key Key) bool {
	if h.readonly {
		warn("R003", "key", key, "target", typeName(target))
		return false
	}

	hadKey := target.hasProp(key)
	oldValue := target.getProp(key)
	result := target.deleteProp(key)
	if result && hadKey {
		trigger(target, OpDelete, key, nil, oldValue, nil)
	}
	return result
}

func (h *baseHandler) has(target propertyTarget, key Key) bool {
	result := target.hasProp(key)
	if !h.readonly {
		Track(target, OpHas, key)
	}
	return result
}

func (h *baseHandler) ownKeys(target propertyTarget) []Key {
	if !h.readonly {
		if _, ok := target.(*Array); ok {
			Track(target, OpIterate, LengthKey)
		} else {
			Track(target, OpIterate, IterateKey)
		}
	}
	return target.ownKeys()
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
