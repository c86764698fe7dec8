package reactive

import "reflect"

// hasChanged reports whether a write of value over old is a change.
func hasChanged(value, old any) bool {
	return !sameValue(value, old, true)
}

// sameValue compares two stored values. Comparable values use ==, except
// that NaN equals NaN when nanEqual is set. Slices, maps and funcs compare
// by reference. Other values are never the same.
func sameValue(a, b any, nanEqual bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		return ok && (x == y || (nanEqual && x != x && y != y))
	case float32:
		y, ok := b.(float32)
		return ok && (x == y || (nanEqual && x != x && y != y))
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Comparable() {
		return a == b
	}
	switch va.Kind() {
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	}
	return false
}
