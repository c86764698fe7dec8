package ordered

import (
	"reflect"
	"testing"
)

func TestMapPreservesInsertionOrder(t *testing.T) {
	var m Map[string, int]
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("c", 3)
	m.Set("a", 20)

	if got, want := m.Keys(), []string{"b", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if v, _ := m.Get("a"); v != 20 {
		t.Errorf("Get(a) = %d, want 20", v)
	}
}

func TestMapReinsertMovesToEnd(t *testing.T) {
	var m Map[int, string]
	m.Set(1, "one")
	m.Set(2, "two")
	m.Delete(1)
	m.Set(1, "uno")

	if got, want := m.Keys(), []int{2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestMapSetReportsExisting(t *testing.T) {
	var m Map[string, int]
	if m.Set("x", 1) {
		t.Error("first Set should report a new key")
	}
	if !m.Set("x", 2) {
		t.Error("second Set should report an existing key")
	}
	if !m.Delete("x") {
		t.Error("Delete should report removal")
	}
	if m.Delete("x") {
		t.Error("second Delete should report nothing removed")
	}
}

func TestMapRangeSeesAppendsAndSkipsDeletes(t *testing.T) {
	var m Map[int, int]
	for i := 0; i < 3; i++ {
		m.Set(i, i)
	}

	var seen []int
	m.Range(func(k, _ int) bool {
		seen = append(seen, k)
		if k == 0 {
			m.Delete(1)
			m.Set(10, 10)
		}
		return true
	})

	if want := []int{0, 2, 10}; !reflect.DeepEqual(seen, want) {
		t.Errorf("Range visited %v, want %v", seen, want)
	}
}

func TestMapCompactsAfterManyDeletes(t *testing.T) {
	var m Map[int, int]
	for i := 0; i < 100; i++ {
		m.Set(i, i)
	}
	for i := 0; i < 90; i++ {
		m.Delete(i)
	}

	if m.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", m.Len())
	}
	if len(m.entries) >= 20 {
		t.Errorf("entries not compacted: %d slots", len(m.entries))
	}
	if v, ok := m.Get(95); !ok || v != 95 {
		t.Errorf("Get(95) = %d, %v after compaction", v, ok)
	}
}

func TestMapClearDuringRange(t *testing.T) {
	var m Map[int, int]
	m.Set(1, 1)
	m.Set(2, 2)

	count := 0
	m.Range(func(_, _ int) bool {
		count++
		m.Clear()
		return true
	})

	if count != 1 {
		t.Errorf("Range visited %d entries after Clear, want 1", count)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", m.Len())
	}
}

func TestMapCloneIsIndependent(t *testing.T) {
	var m Map[string, int]
	m.Set("a", 1)
	c := m.Clone()
	m.Set("b", 2)

	if c.Len() != 1 || c.Has("b") {
		t.Errorf("clone changed with source: %v", c.Keys())
	}
}
