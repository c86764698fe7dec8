package reactive

import "iter"

// Array is an indexed sequence with a length. A facade of an Array is
// itself an *Array. Reads of individual indexes track those indexes; Len
// and iteration track LengthKey.
type Array struct {
	meta
	target *Array
	items  []any
}

// NewArray creates a raw array holding items.
//
// Example:
//
//	todos := reactive.Reactive(reactive.NewArray("write", "test"))
//	todos.Push("ship")
func NewArray(items ...any) *Array {
	return &Array{items: append([]any(nil), items...)}
}

func (a *Array) targetMeta() *meta {
	if a == nil {
		return nil
	}
	return &a.meta
}

func (a *Array) proxied() Target {
	if a == nil || a.target == nil {
		return nil
	}
	return a.target
}

func (a *Array) newProxy(f Flavor) Target {
	p := &Array{target: a}
	p.isProxy = true
	p.flavor = f
	return p
}

func (a *Array) weakKey() any {
	return makeWeakHandle(a)
}

func (a *Array) handler() *baseHandler {
	return baseHandlers[a.flavor]
}

// Get returns the element at i, or nil if i is out of range.
func (a *Array) Get(i int) any {
	return a.getProp(i)
}

// Set stores value at i, growing the array with nils if i is past the end.
// Negative indexes are ignored.
func (a *Array) Set(i int, value any) bool {
	if i < 0 {
		return false
	}
	return a.setProp(i, value)
}

// Len returns the length of the array.
func (a *Array) Len() int {
	n, _ := a.getProp(LengthKey).(int)
	return n
}

// SetLen truncates or extends the array to n elements.
func (a *Array) SetLen(n int) bool {
	if n < 0 {
		return false
	}
	return a.setProp(LengthKey, n)
}

// Has reports whether i is a valid index.
func (a *Array) Has(i int) bool {
	return a.hasProp(i)
}

// Delete clears the element at i to nil without changing the length.
func (a *Array) Delete(i int) bool {
	return a.deleteProp(i)
}

// Keys returns the valid indexes.
func (a *Array) Keys() []int {
	keys := a.ownKeys()
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = k.(int)
	}
	return out
}

// Slice returns a copy of the elements as seen through a.
func (a *Array) Slice() []any {
	n := a.Len()
	out := make([]any, n)
	for i := range n {
		out[i] = a.Get(i)
	}
	return out
}

// All iterates over index/element pairs.
func (a *Array) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		for i := 0; i < a.Len(); i++ {
			if !yield(i, a.Get(i)) {
				return
			}
		}
	}
}

// Freeze makes the underlying array immutable and returns a.
func (a *Array) Freeze() *Array {
	freeze(a)
	return a
}

// Includes reports whether v is an element. NaN matches NaN. On a facade
// every index is tracked, and a facade argument also matches its raw value.
func (a *Array) Includes(v any) bool {
	return a.search(v, includesIn) >= 0
}

// IndexOf returns the first index holding v, or -1.
func (a *Array) IndexOf(v any) int {
	return a.search(v, indexIn)
}

// LastIndexOf returns the last index holding v, or -1.
func (a *Array) LastIndexOf(v any) int {
	return a.search(v, lastIndexIn)
}

func includesIn(items []any, v any) int {
	for i, x := range items {
		if sameValue(x, v, true) {
			return i
		}
	}
	return -1
}

func indexIn(items []any, v any) int {
	for i, x := range items {
		if sameValue(x, v, false) {
			return i
		}
	}
	return -1
}

func lastIndexIn(items []any, v any) int {
	for i := len(items) - 1; i >= 0; i-- {
		if sameValue(items[i], v, false) {
			return i
		}
	}
	return -1
}

// search runs find over the raw elements. Mutable facades track every
// index; a readonly facade defers to the value it wraps so that a reactive
// value underneath still tracks.
func (a *Array) search(v any, find func([]any, any) int) int {
	if a.target == nil {
		return find(a.items, v)
	}
	if a.flavor.IsReadonly() {
		i := a.target.search(v, find)
		if i < 0 && IsProxy(v) {
			i = a.target.search(Unwrap(v), find)
		}
		return i
	}

	raw := ToRaw(a)
	for i := range raw.items {
		Track(raw, OpGet, i)
	}
	if i := find(raw.items, v); i >= 0 || !IsProxy(v) {
		return i
	}
	return find(raw.items, Unwrap(v))
}

// Push appends values and returns the new length. Reads of the length made
// while pushing are not tracked, so an effect that pushes does not depend
// on the array it grows.
func (a *Array) Push(values ...any) int {
	PauseTracking()
	defer ResetTracking()

	n := a.Len()
	for i, v := range values {
		a.Set(n+i, v)
	}
	return a.Len()
}

// Pop removes and returns the last element, or nil if the array is empty.
func (a *Array) Pop() any {
	PauseTracking()
	defer ResetTracking()

	n := a.Len()
	if n == 0 {
		return nil
	}
	v := a.Get(n - 1)
	a.SetLen(n - 1)
	return v
}

// Shift removes and returns the first element, or nil if the array is
// empty.
func (a *Array) Shift() any {
	PauseTracking()
	defer ResetTracking()

	n := a.Len()
	if n == 0 {
		return nil
	}
	first := a.Get(0)
	for i := 1; i < n; i++ {
		a.Set(i-1, a.Get(i))
	}
	a.SetLen(n - 1)
	return first
}

// Unshift inserts values at the front and returns the new length.
func (a *Array) Unshift(values ...any) int {
	PauseTracking()
	defer ResetTracking()

	n, k := a.Len(), len(values)
	for i := n - 1; i >= 0; i-- {
		a.Set(i+k, a.Get(i))
	}
	for i, v := range values {
		a.Set(i, v)
	}
	return a.Len()
}

// Splice removes deleteCount elements starting at start, inserts values in
// their place and returns the removed elements. A negative start counts
// from the end.
func (a *Array) Splice(start, deleteCount int, values ...any) []any {
	PauseTracking()
	defer ResetTracking()

	n := a.Len()
	if start < 0 {
		start = max(n+start, 0)
	}
	start = min(start, n)
	deleteCount = min(max(deleteCount, 0), n-start)

	removed := make([]any, deleteCount)
	for i := range deleteCount {
		removed[i] = a.Get(start + i)
	}

	tail := make([]any, 0, n-start-deleteCount)
	for i := start + deleteCount; i < n; i++ {
		tail = append(tail, a.Get(i))
	}

	pos := start
	for _, v := range values {
		a.Set(pos, v)
		pos++
	}
	for _, v := range tail {
		a.Set(pos, v)
		pos++
	}
	if pos < n {
		a.SetLen(pos)
	}
	return removed
}

func (a *Array) getProp(key Key) any {
	if a.target != nil {
		return a.handler().get(a.target, key)
	}
	switch k := key.(type) {
	case int:
		if k >= 0 && k < len(a.items) {
			return a.items[k]
		}
	case string:
		if k == LengthKey {
			return len(a.items)
		}
	}
	return nil
}

func (a *Array) setProp(key Key, value any) bool {
	if a.target != nil {
		return a.handler().set(a.target, key, value)
	}
	if a.frozen {
		warn("R005", "key", key)
		return false
	}
	switch k := key.(type) {
	case int:
		if k < 0 {
			return false
		}
		if k >= len(a.items) {
			a.items = append(a.items, make([]any, k+1-len(a.items))...)
		}
		a.items[k] = value
		return true
	case string:
		n, ok := value.(int)
		if k != LengthKey || !ok || n < 0 {
			return false
		}
		if n < len(a.items) {
			clear(a.items[n:])
			a.items = a.items[:n]
		} else {
			a.items = append(a.items, make([]any, n-len(a.items))...)
		}
		return true
	}
	return false
}

func (a *Array) deleteProp(key Key) bool {
	if a.target != nil {
		return a.handler().deleteProperty(a.target, key)
	}
	if a.frozen {
		warn("R005", "key", key)
		return false
	}
	k, ok := key.(int)
	if !ok || k < 0 || k >= len(a.items) {
		return false
	}
	a.items[k] = nil
	return true
}

func (a *Array) hasProp(key Key) bool {
	if a.target != nil {
		return a.handler().has(a.target, key)
	}
	switch k := key.(type) {
	case int:
		return k >= 0 && k < len(a.items)
	case string:
		return k == LengthKey
	}
	return false
}

func (a *Array) ownKeys() []Key {
	if a.target != nil {
		return a.handler().ownKeys(a.target)
	}
	keys := make([]Key, len(a.items))
	for i := range a.items {
		keys[i] = i
	}
	return keys
}
