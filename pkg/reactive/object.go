package reactive

import (
	"fmt"
	"iter"

	"github.com/vango-dev/reactive/internal/ordered"
)

// Object is a record of string-keyed properties kept in insertion order.
// A facade of an Object is itself an *Object; every method on it is
// intercepted according to the facade's flavor.
type Object struct {
	meta
	target *Object
	props  ordered.Map[string, any]
}

// NewObject creates a raw record from alternating keys and values.
// It panics if a key is not a string or a value is missing.
//
// Example:
//
//	user := reactive.NewObject("name", "Ada", "age", 36)
func NewObject(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic(fmt.Sprintf("reactive: NewObject called with %d arguments, want key/value pairs", len(kv)))
	}
	o := &Object{}
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("reactive: NewObject key %v is %T, not string", kv[i], kv[i]))
		}
		o.props.Set(key, kv[i+1])
	}
	return o
}

func (o *Object) targetMeta() *meta {
	if o == nil {
		return nil
	}
	return &o.meta
}

func (o *Object) proxied() Target {
	if o == nil || o.target == nil {
		return nil
	}
	return o.target
}

func (o *Object) newProxy(f Flavor) Target {
	p := &Object{target: o}
	p.isProxy = true
	p.flavor = f
	return p
}

func (o *Object) weakKey() any {
	return makeWeakHandle(o)
}

func (o *Object) handler() *baseHandler {
	return baseHandlers[o.flavor]
}

// Get returns the value of key, or nil if it is not set.
func (o *Object) Get(key string) any {
	return o.getProp(key)
}

// Set stores value under key and reports whether the write was accepted.
// Writes to readonly facades and frozen records are rejected.
func (o *Object) Set(key string, value any) bool {
	return o.setProp(key, value)
}

// Has reports whether key is set.
func (o *Object) Has(key string) bool {
	return o.hasProp(key)
}

// Delete removes key and reports whether it was removed.
func (o *Object) Delete(key string) bool {
	return o.deleteProp(key)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	keys := o.ownKeys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.(string)
	}
	return out
}

// Len returns the number of properties.
func (o *Object) Len() int {
	return len(o.ownKeys())
}

// All iterates over key/value pairs in insertion order.
func (o *Object) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range o.Keys() {
			if !yield(k, o.Get(k)) {
				return
			}
		}
	}
}

// Freeze makes the underlying record immutable and returns o.
func (o *Object) Freeze() *Object {
	freeze(o)
	return o
}

func (o *Object) getProp(key Key) any {
	if o.target != nil {
		return o.handler().get(o.target, key)
	}
	k, ok := key.(string)
	if !ok {
		return nil
	}
	v, _ := o.props.Get(k)
	return v
}

func (o *Object) setProp(key Key, value any) bool {
	if o.target != nil {
		return o.handler().set(o.target, key, value)
	}
	k, ok := key.(string)
	if !ok {
		return false
	}
	if o.frozen {
		warn("R005", "key", k)
		return false
	}
	o.props.Set(k, value)
	return true
}

func (o *Object) deleteProp(key Key) bool {
	if o.target != nil {
		return o.handler().deleteProperty(o.target, key)
	}
	k, ok := key.(string)
	if !ok {
		return false
	}
	if o.frozen {
		warn("R005", "key", k)
		return false
	}
	return o.props.Delete(k)
}

func (o *Object) hasProp(key Key) bool {
	if o.target != nil {
		return o.handler().has(o.target, key)
	}
	k, ok := key.(string)
	return ok && o.props.Has(k)
}

func (o *Object) ownKeys() []Key {
	if o.target != nil {
		return o.handler().ownKeys(o.target)
	}
	keys := make([]Key, 0, o.props.Len())
	o.props.Range(func(k string, _ any) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}
