package reactive

import (
	"weak"

	"github.com/vango-dev/reactive/internal/ordered"
)

// weakHandle identifies a target without keeping it alive. Handles made
// from the same pointer compare equal.
type weakHandle[T any] struct {
	p weak.Pointer[T]
}

func makeWeakHandle[T any](p *T) weakHandle[T] {
	return weakHandle[T]{p: weak.Make(p)}
}

func (h weakHandle[T]) live() bool {
	return h.p.Value() != nil
}

type liveness interface {
	live() bool
}

// weakStore holds entries keyed by weak handles. Entries whose key has been
// collected are dropped, together with their dependencies, the next time
// the store grows past its prune threshold.
type weakStore struct {
	entries   ordered.Map[any, any]
	threshold int
}

func (s *weakStore) prune(m *meta) {
	if s.entries.Len() < s.threshold {
		return
	}
	var dead []any
	s.entries.Range(func(k, _ any) bool {
		if h, ok := k.(liveness); ok && !h.live() {
			dead = append(dead, k)
		}
		return true
	})
	for _, k := range dead {
		s.entries.Delete(k)
		if m.deps != nil {
			m.deps.Delete(k)
		}
	}
	s.threshold = 2*s.entries.Len() + 8
}

// handleOf returns the weak handle of key, or nil if key is not a target.
func handleOf(key any) any {
	t, ok := key.(Target)
	if !ok || t.targetMeta() == nil {
		return nil
	}
	return t.weakKey()
}

// WeakMap maps targets to values without keeping the targets alive. It
// cannot be iterated. A facade of a WeakMap is itself a *WeakMap.
type WeakMap struct {
	meta
	target *WeakMap
	store  weakStore
}

// NewWeakMap creates an empty raw weak map.
func NewWeakMap() *WeakMap {
	return &WeakMap{}
}

func (m *WeakMap) targetMeta() *meta {
	if m == nil {
		return nil
	}
	return &m.meta
}

func (m *WeakMap) proxied() Target {
	if m == nil || m.target == nil {
		return nil
	}
	return m.target
}

func (m *WeakMap) newProxy(f Flavor) Target {
	p := &WeakMap{target: m}
	p.isProxy = true
	p.flavor = f
	return p
}

func (m *WeakMap) weakKey() any {
	return makeWeakHandle(m)
}

func (m *WeakMap) handler() *collectionHandler {
	return collectionHandlers[m.flavor]
}

// Get returns the value stored under key, or nil.
func (m *WeakMap) Get(key Target) any {
	if m.target != nil {
		return m.handler().get(m.target, key)
	}
	return m.rawGet(key)
}

// Has reports whether key is present.
func (m *WeakMap) Has(key Target) bool {
	if m.target != nil {
		return m.handler().has(m.target, key)
	}
	return m.rawHas(key)
}

// Set stores value under key and returns m.
func (m *WeakMap) Set(key Target, value any) *WeakMap {
	if m.target != nil {
		m.handler().set(m.target, key, value)
	} else {
		m.rawPut(key, value)
	}
	return m
}

// Delete removes key and reports whether it was present.
func (m *WeakMap) Delete(key Target) bool {
	if m.target != nil {
		return m.handler().delete(m.target, key)
	}
	return m.rawDelete(key)
}

func (m *WeakMap) depKey(key any) any { return handleOf(key) }

func (m *WeakMap) rawHas(key any) bool {
	h := handleOf(key)
	return h != nil && m.store.entries.Has(h)
}

func (m *WeakMap) rawGet(key any) any {
	h := handleOf(key)
	if h == nil {
		return nil
	}
	v, _ := m.store.entries.Get(h)
	return v
}

func (m *WeakMap) rawPut(key, value any) bool {
	h := handleOf(key)
	if h == nil {
		warn("R001", "value", typeName(key), "op", "weak map key")
		return false
	}
	if m.frozen {
		warn("R005", "key", typeName(key))
		return false
	}
	m.store.entries.Set(h, value)
	m.store.prune(&m.meta)
	return true
}

func (m *WeakMap) rawDelete(key any) bool {
	h := handleOf(key)
	if h == nil {
		return false
	}
	if m.frozen {
		warn("R005", "key", typeName(key))
		return false
	}
	return m.store.entries.Delete(h)
}

func (m *WeakMap) rawClear() bool { return false }

func (m *WeakMap) rawLen() int { return m.store.entries.Len() }

func (m *WeakMap) lookup(key any) any {
	t, _ := key.(Target)
	return m.Get(t)
}

func (m *WeakMap) contains(key any) bool {
	t, _ := key.(Target)
	return m.Has(t)
}

// WeakSet holds targets without keeping them alive. It cannot be iterated.
// A facade of a WeakSet is itself a *WeakSet.
type WeakSet struct {
	meta
	target *WeakSet
	store  weakStore
}

// NewWeakSet creates an empty raw weak set.
func NewWeakSet() *WeakSet {
	return &WeakSet{}
}

func (s *WeakSet) targetMeta() *meta {
	if s == nil {
		return nil
	}
	return &s.meta
}

func (s *WeakSet) proxied() Target {
	if s == nil || s.target == nil {
		return nil
	}
	return s.target
}

func (s *WeakSet) newProxy(f Flavor) Target {
	p := &WeakSet{target: s}
	p.isProxy = true
	p.flavor = f
	return p
}

func (s *WeakSet) weakKey() any {
	return makeWeakHandle(s)
}

func (s *WeakSet) handler() *collectionHandler {
	return collectionHandlers[s.flavor]
}

// Add inserts value and returns s.
func (s *WeakSet) Add(value Target) *WeakSet {
	if s.target != nil {
		s.handler().add(s.target, value)
	} else {
		s.rawPut(value, value)
	}
	return s
}

// Has reports whether value is present.
func (s *WeakSet) Has(value Target) bool {
	if s.target != nil {
		return s.handler().has(s.target, value)
	}
	return s.rawHas(value)
}

// Delete removes value and reports whether it was present.
func (s *WeakSet) Delete(value Target) bool {
	if s.target != nil {
		return s.handler().delete(s.target, value)
	}
	return s.rawDelete(value)
}

func (s *WeakSet) depKey(key any) any { return handleOf(key) }

func (s *WeakSet) rawHas(key any) bool {
	h := handleOf(key)
	return h != nil && s.store.entries.Has(h)
}

func (s *WeakSet) rawGet(key any) any { return nil }

func (s *WeakSet) rawPut(key, _ any) bool {
	h := handleOf(key)
	if h == nil {
		warn("R001", "value", typeName(key), "op", "weak set value")
		return false
	}
	if s.frozen {
		warn("R005", "value", typeName(key))
		return false
	}
	s.store.entries.Set(h, nil)
	s.store.prune(&s.meta)
	return true
}

func (s *WeakSet) rawDelete(key any) bool {
	h := handleOf(key)
	if h == nil {
		return false
	}
	if s.frozen {
		warn("R005", "value", typeName(key))
		return false
	}
	return s.store.entries.Delete(h)
}

func (s *WeakSet) rawClear() bool { return false }

func (s *WeakSet) rawLen() int { return s.store.entries.Len() }

func (s *WeakSet) lookup(key any) any { return nil }

func (s *WeakSet) contains(key any) bool {
	t, _ := key.(Target)
	return s.Has(t)
}
