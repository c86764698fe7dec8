// Package ordered provides an insertion-ordered map used as the backing store
// for reactive records and collections, and for dependency maps whose
// iteration order is observable.
package ordered

// Map is a hash map that remembers insertion order.
//
// Deleting a key and inserting it again moves it to the end. Range visits
// entries appended during the walk and skips entries deleted during it.
// The zero value is ready to use. A Map is not safe for concurrent use.
type Map[K comparable, V any] struct {
	index   map[K]int
	entries []entry[K, V]
	dead    int

	// ranging counts active Range calls; compaction waits until it is zero.
	ranging int
}

type entry[K comparable, V any] struct {
	key   K
	value V
	live  bool
}

// Len returns the number of live entries.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries) - m.dead
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if m == nil || m.index == nil {
		var zero V
		return zero, false
	}
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.entries[i].value, true
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) bool {
	if m == nil || m.index == nil {
		return false
	}
	_, ok := m.index[key]
	return ok
}

// Set stores value under key and reports whether the key already existed.
// Existing keys keep their position.
func (m *Map[K, V]) Set(key K, value V) bool {
	if m.index == nil {
		m.index = make(map[K]int)
	}
	if i, ok := m.index[key]; ok {
		m.entries[i].value = value
		return true
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, entry[K, V]{key: key, value: value, live: true})
	return false
}

// Delete removes key and reports whether it was present.
func (m *Map[K, V]) Delete(key K) bool {
	if m == nil || m.index == nil {
		return false
	}
	i, ok := m.index[key]
	if !ok {
		return false
	}
	delete(m.index, key)
	var zero entry[K, V]
	m.entries[i] = zero
	m.dead++
	m.maybeCompact()
	return true
}

// Clear removes every entry.
func (m *Map[K, V]) Clear() {
	if m == nil {
		return
	}
	if m.ranging > 0 {
		for i := range m.entries {
			if m.entries[i].live {
				var zero entry[K, V]
				m.entries[i] = zero
				m.dead++
			}
		}
		clear(m.index)
		return
	}
	m.index = nil
	m.entries = nil
	m.dead = 0
}

// Range calls fn for each live entry in insertion order until fn returns false.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	if m == nil {
		return
	}
	m.ranging++
	defer func() {
		m.ranging--
		m.maybeCompact()
	}()
	// len is re-read every step so entries added by fn are visited.
	for i := 0; i < len(m.entries); i++ {
		e := m.entries[i]
		if !e.live {
			continue
		}
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Keys returns the live keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	m.Range(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Values returns the live values in insertion order.
func (m *Map[K, V]) Values() []V {
	values := make([]V, 0, m.Len())
	m.Range(func(_ K, v V) bool {
		values = append(values, v)
		return true
	})
	return values
}

// Clone returns a shallow copy with the same order.
func (m *Map[K, V]) Clone() *Map[K, V] {
	c := &Map[K, V]{}
	m.Range(func(k K, v V) bool {
		c.Set(k, v)
		return true
	})
	return c
}

func (m *Map[K, V]) maybeCompact() {
	if m.ranging > 0 || m.dead < 8 || m.dead*2 < len(m.entries) {
		return
	}
	live := make([]entry[K, V], 0, len(m.entries)-m.dead)
	for _, e := range m.entries {
		if e.live {
			m.index[e.key] = len(live)
			live = append(live, e)
		}
	}
	m.entries = live
	m.dead = 0
}
