package reactive

import (
	"runtime"
	"testing"
)

func TestWeakMapBasics(t *testing.T) {
	k1, k2 := NewObject(), NewArray()
	m := Reactive(NewWeakMap())

	m.Set(k1, "one").Set(k2, "two")
	if m.Get(k1) != "one" || m.Get(k2) != "two" {
		t.Error("Get should see stored entries")
	}
	if !m.Has(k1) || m.Has(NewObject()) {
		t.Error("Has should match by identity")
	}
	if !m.Delete(k1) || m.Has(k1) {
		t.Error("Delete should remove the entry")
	}
}

func TestWeakMapTracksKey(t *testing.T) {
	key := NewObject()
	m := Reactive(NewWeakMap())

	_, runs := counter(func() { _ = m.Get(key) })

	m.Set(NewObject(), 1)
	if *runs != 1 {
		t.Errorf("other key should not trigger, runs = %d", *runs)
	}
	m.Set(key, 1)
	if *runs != 2 {
		t.Errorf("runs = %d, want 2", *runs)
	}
	m.Delete(key)
	if *runs != 3 {
		t.Errorf("runs = %d, want 3", *runs)
	}
}

func TestWeakMapFacadeKey(t *testing.T) {
	key := NewObject()
	m := Reactive(NewWeakMap())
	m.Set(key, "v")

	if m.Get(Reactive(key)) != "v" {
		t.Error("facade key should fall back to the raw key")
	}
}

func TestWeakMapDropsCollectedKeys(t *testing.T) {
	m := NewWeakMap()
	for range 4 {
		m.Set(NewObject(), 1)
	}
	runtime.GC()

	keep := make([]*Object, 20)
	for i := range keep {
		keep[i] = NewObject()
		m.Set(keep[i], i)
	}
	if m.rawLen() >= 24 {
		t.Errorf("collected keys should be pruned, len = %d", m.rawLen())
	}
	for i, k := range keep {
		if m.Get(k) != i {
			t.Errorf("live key %d lost its value", i)
		}
	}
}

func TestWeakSetBasics(t *testing.T) {
	item := NewObject()
	s := Reactive(NewWeakSet())

	_, runs := counter(func() { _ = s.Has(item) })

	s.Add(Reactive(item))
	if *runs != 2 {
		t.Errorf("runs = %d, want 2", *runs)
	}
	if !ToRaw(s).Has(item) {
		t.Error("Add should store the raw value")
	}
	s.Add(item)
	if *runs != 2 {
		t.Errorf("adding a present value should not trigger, runs = %d", *runs)
	}
	if !s.Delete(item) || s.Has(item) {
		t.Error("Delete should remove the value")
	}
}

func TestReadonlyWeakSetRejectsAdd(t *testing.T) {
	raw := NewWeakSet()
	item := NewObject()
	Readonly(raw).Add(item)
	if raw.Has(item) {
		t.Error("readonly Add should be ignored")
	}
}
