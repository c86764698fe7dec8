package reactive

import (
	"iter"

	"github.com/vango-dev/reactive/internal/ordered"
)

// Entry is a key/value pair used to seed a Map.
type Entry struct {
	Key   any
	Value any
}

// Map is a keyed collection that remembers insertion order. Keys must be
// comparable and follow Go map equality, so NaN keys never match each
// other: every Set(math.NaN(), v) adds a new entry and Get(math.NaN())
// finds none. A facade of a Map is itself a *Map.
type Map struct {
	meta
	target  *Map
	entries ordered.Map[any, any]
}

// NewMap creates a raw map holding entries.
//
// Example:
//
//	prices := reactive.Reactive(reactive.NewMap(
//	    reactive.Entry{Key: "tea", Value: 3},
//	))
func NewMap(entries ...Entry) *Map {
	m := &Map{}
	for _, e := range entries {
		m.entries.Set(e.Key, e.Value)
	}
	return m
}

func (m *Map) targetMeta() *meta {
	if m == nil {
		return nil
	}
	return &m.meta
}

func (m *Map) proxied() Target {
	if m == nil || m.target == nil {
		return nil
	}
	return m.target
}

func (m *Map) newProxy(f Flavor) Target {
	p := &Map{target: m}
	p.isProxy = true
	p.flavor = f
	return p
}

func (m *Map) weakKey() any {
	return makeWeakHandle(m)
}

func (m *Map) handler() *collectionHandler {
	return collectionHandlers[m.flavor]
}

// Get returns the value stored under key, or nil.
func (m *Map) Get(key any) any {
	if m.target != nil {
		return m.handler().get(m.target, key)
	}
	return m.rawGet(key)
}

// Has reports whether key is present.
func (m *Map) Has(key any) bool {
	if m.target != nil {
		return m.handler().has(m.target, key)
	}
	return m.rawHas(key)
}

// Set stores value under key and returns m.
func (m *Map) Set(key, value any) *Map {
	if m.target != nil {
		m.handler().set(m.target, key, value)
	} else {
		m.rawPut(key, value)
	}
	return m
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key any) bool {
	if m.target != nil {
		return m.handler().delete(m.target, key)
	}
	return m.rawDelete(key)
}

// Clear removes every entry.
func (m *Map) Clear() {
	if m.target != nil {
		m.handler().clear(m.target, func() any { return ToRaw(m).clone() })
		return
	}
	m.rawClear()
}

// Size returns the number of entries.
func (m *Map) Size() int {
	if m.target != nil {
		return m.handler().size(m.target)
	}
	return m.rawLen()
}

// ForEach calls fn for each entry in insertion order.
func (m *Map) ForEach(fn func(value, key any)) {
	if m.target != nil {
		h := m.handler()
		h.trackIterate(m.target, false)
		m.target.ForEach(func(value, key any) {
			fn(h.wrap(value), h.wrap(key))
		})
		return
	}
	m.entries.Range(func(k, v any) bool {
		fn(v, k)
		return true
	})
}

// Keys iterates over the keys. A facade tracks only the key set, so
// overwriting a value does not re-run an effect that reads Keys.
func (m *Map) Keys() iter.Seq[any] {
	if m.target != nil {
		h := m.handler()
		h.trackIterate(m.target, true)
		return wrapSeq(m.target.Keys(), h.wrap)
	}
	return func(yield func(any) bool) {
		m.entries.Range(func(k, _ any) bool {
			return yield(k)
		})
	}
}

// Values iterates over the values.
func (m *Map) Values() iter.Seq[any] {
	if m.target != nil {
		h := m.handler()
		h.trackIterate(m.target, false)
		return wrapSeq(m.target.Values(), h.wrap)
	}
	return func(yield func(any) bool) {
		m.entries.Range(func(_, v any) bool {
			return yield(v)
		})
	}
}

// Entries iterates over key/value pairs.
func (m *Map) Entries() iter.Seq2[any, any] {
	if m.target != nil {
		h := m.handler()
		h.trackIterate(m.target, false)
		return wrapSeq2(m.target.Entries(), h.wrap)
	}
	return func(yield func(any, any) bool) {
		m.entries.Range(yield)
	}
}

// All is Entries, for use with range.
func (m *Map) All() iter.Seq2[any, any] {
	return m.Entries()
}

// Freeze makes the underlying map immutable and returns m.
func (m *Map) Freeze() *Map {
	freeze(m)
	return m
}

func (m *Map) clone() *Map {
	return &Map{entries: *m.entries.Clone()}
}

func (m *Map) depKey(key any) any { return key }

func (m *Map) rawHas(key any) bool { return m.entries.Has(key) }

func (m *Map) rawGet(key any) any {
	v, _ := m.entries.Get(key)
	return v
}

func (m *Map) rawPut(key, value any) bool {
	if m.frozen {
		warn("R005", "key", key)
		return false
	}
	m.entries.Set(key, value)
	return true
}

func (m *Map) rawDelete(key any) bool {
	if m.frozen {
		warn("R005", "key", key)
		return false
	}
	return m.entries.Delete(key)
}

func (m *Map) rawClear() bool {
	if m.frozen {
		warn("R005", "op", "clear")
		return false
	}
	m.entries.Clear()
	return true
}

func (m *Map) rawLen() int { return m.entries.Len() }

func (m *Map) lookup(key any) any { return m.Get(key) }

func (m *Map) contains(key any) bool { return m.Has(key) }

// Set is a collection of distinct comparable values in insertion order.
// Membership follows Go map equality, so each NaN added is a separate
// value. A facade of a Set is itself a *Set.
type Set struct {
	meta
	target *Set
	items  ordered.Map[any, any]
}

// NewSet creates a raw set holding values.
func NewSet(values ...any) *Set {
	s := &Set{}
	for _, v := range values {
		s.items.Set(v, v)
	}
	return s
}

func (s *Set) targetMeta() *meta {
	if s == nil {
		return nil
	}
	return &s.meta
}

func (s *Set) proxied() Target {
	if s == nil || s.target == nil {
		return nil
	}
	return s.target
}

func (s *Set) newProxy(f Flavor) Target {
	p := &Set{target: s}
	p.isProxy = true
	p.flavor = f
	return p
}

func (s *Set) weakKey() any {
	return makeWeakHandle(s)
}

func (s *Set) handler() *collectionHandler {
	return collectionHandlers[s.flavor]
}

// Add inserts value and returns s.
func (s *Set) Add(value any) *Set {
	if s.target != nil {
		s.handler().add(s.target, value)
	} else {
		s.rawPut(value, value)
	}
	return s
}

// Has reports whether value is present.
func (s *Set) Has(value any) bool {
	if s.target != nil {
		return s.handler().has(s.target, value)
	}
	return s.rawHas(value)
}

// Delete removes value and reports whether it was present.
func (s *Set) Delete(value any) bool {
	if s.target != nil {
		return s.handler().delete(s.target, value)
	}
	return s.rawDelete(value)
}

// Clear removes every value.
func (s *Set) Clear() {
	if s.target != nil {
		s.handler().clear(s.target, func() any { return ToRaw(s).clone() })
		return
	}
	s.rawClear()
}

// Size returns the number of values.
func (s *Set) Size() int {
	if s.target != nil {
		return s.handler().size(s.target)
	}
	return s.rawLen()
}

// ForEach calls fn for each value in insertion order.
func (s *Set) ForEach(fn func(value any)) {
	if s.target != nil {
		h := s.handler()
		h.trackIterate(s.target, false)
		s.target.ForEach(func(value any) {
			fn(h.wrap(value))
		})
		return
	}
	s.items.Range(func(v, _ any) bool {
		fn(v)
		return true
	})
}

// Values iterates over the values.
func (s *Set) Values() iter.Seq[any] {
	if s.target != nil {
		h := s.handler()
		h.trackIterate(s.target, false)
		return wrapSeq(s.target.Values(), h.wrap)
	}
	return func(yield func(any) bool) {
		s.items.Range(func(v, _ any) bool {
			return yield(v)
		})
	}
}

// Keys is Values.
func (s *Set) Keys() iter.Seq[any] {
	return s.Values()
}

// Entries iterates over each value paired with itself.
func (s *Set) Entries() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for v := range s.Values() {
			if !yield(v, v) {
				return
			}
		}
	}
}

// All is Values, for use with range.
func (s *Set) All() iter.Seq[any] {
	return s.Values()
}

// Freeze makes the underlying set immutable and returns s.
func (s *Set) Freeze() *Set {
	freeze(s)
	return s
}

func (s *Set) clone() *Set {
	return &Set{items: *s.items.Clone()}
}

func (s *Set) depKey(key any) any { return key }

func (s *Set) rawHas(key any) bool { return s.items.Has(key) }

func (s *Set) rawGet(key any) any {
	v, _ := s.items.Get(key)
	return v
}

func (s *Set) rawPut(key, value any) bool {
	if s.frozen {
		warn("R005", "value", key)
		return false
	}
	s.items.Set(key, value)
	return true
}

func (s *Set) rawDelete(key any) bool {
	if s.frozen {
		warn("R005", "value", key)
		return false
	}
	return s.items.Delete(key)
}

func (s *Set) rawClear() bool {
	if s.frozen {
		warn("R005", "op", "clear")
		return false
	}
	s.items.Clear()
	return true
}

func (s *Set) rawLen() int { return s.items.Len() }

func (s *Set) lookup(key any) any {
	if s.Has(key) {
		return key
	}
	return nil
}

func (s *Set) contains(key any) bool { return s.Has(key) }

func wrapSeq(seq iter.Seq[any], wrap func(any) any) iter.Seq[any] {
	return func(yield func(any) bool) {
		for v := range seq {
			if !yield(wrap(v)) {
				return
			}
		}
	}
}

func wrapSeq2(seq iter.Seq2[any, any], wrap func(any) any) iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for k, v := range seq {
			if !yield(wrap(k), wrap(v)) {
				return
			}
		}
	}
}
