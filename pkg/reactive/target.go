package reactive

import "github.com/vango-dev/reactive/internal/ordered"

// Flavor selects how a target is wrapped.
type Flavor uint8

const (
	// FlavorReactive tracks reads, triggers on writes and wraps nested
	// targets on read.
	FlavorReactive Flavor = iota
	// FlavorReadonly rejects writes and wraps nested targets readonly.
	FlavorReadonly
	// FlavorShallowReactive tracks and triggers on the top level only.
	FlavorShallowReactive
	// FlavorShallowReadonly rejects top-level writes and returns nested
	// values as they are.
	FlavorShallowReadonly

	flavorCount
)

// IsReadonly reports whether the flavor rejects writes.
func (f Flavor) IsReadonly() bool {
	return f == FlavorReadonly || f == FlavorShallowReadonly
}

// IsShallow reports whether the flavor leaves nested values unwrapped.
func (f Flavor) IsShallow() bool {
	return f == FlavorShallowReactive || f == FlavorShallowReadonly
}

// String returns a human-readable name for the flavor.
func (f Flavor) String() string {
	switch f {
	case FlavorReactive:
		return "reactive"
	case FlavorReadonly:
		return "readonly"
	case FlavorShallowReactive:
		return "shallowReactive"
	case FlavorShallowReadonly:
		return "shallowReadonly"
	default:
		return "unknown"
	}
}

// Op is the kind of operation reported to Track and Trigger.
// OpGet, OpHas and OpIterate are reads; the rest are writes.
type Op uint8

const (
	OpGet Op = iota + 1
	OpHas
	OpIterate
	OpSet
	OpAdd
	OpDelete
	OpClear
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpGet:
		return "get"
	case OpHas:
		return "has"
	case OpIterate:
		return "iterate"
	case OpSet:
		return "set"
	case OpAdd:
		return "add"
	case OpDelete:
		return "delete"
	case OpClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Key identifies a dependency within a target: a string for records, an
// int index or LengthKey for arrays, the entry key for maps and sets, or
// one of the synthetic iteration keys.
type Key = any

type iterationKey struct{ name string }

func (k *iterationKey) String() string { return k.name }

var (
	// IterateKey is tracked by reads that depend on a target's whole key
	// set or its size.
	IterateKey Key = &iterationKey{"iterate"}

	// MapKeyIterateKey is tracked by Map.Keys, which does not depend on
	// values.
	MapKeyIterateKey Key = &iterationKey{"map key iterate"}
)

// LengthKey is the dependency key for an array's length.
const LengthKey = "length"

// Target is a value that can be wrapped: *Object, *Array, *Map, *Set,
// *WeakMap or *WeakSet. Facades have the same type as the value they wrap.
type Target interface {
	targetMeta() *meta
	// proxied returns the wrapped value of a facade, or nil for a raw target.
	proxied() Target
	newProxy(f Flavor) Target
	weakKey() any
}

// meta is the hidden header every target carries.
type meta struct {
	skip   bool
	frozen bool

	// isProxy and flavor describe a facade.
	isProxy bool
	flavor  Flavor

	// proxies holds the facade created for this value, one slot per flavor.
	proxies [flavorCount]Target

	// deps is this value's entry in the dependency graph, created on the
	// first Track.
	deps *ordered.Map[Key, *dep]
}

// metaOf returns the header of v if v is a non-nil target.
func metaOf(v any) *meta {
	t, ok := v.(Target)
	if !ok {
		return nil
	}
	return t.targetMeta()
}
