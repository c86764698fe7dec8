package reactive

import "github.com/vango-dev/reactive/internal/ordered"

// dep is the set of effects subscribed to one key of one target, kept in
// subscription order.
type dep struct {
	subs    []*Effect
	members map[*Effect]struct{}
}

func newDep() *dep {
	return &dep{members: make(map[*Effect]struct{})}
}

func (d *dep) has(e *Effect) bool {
	_, ok := d.members[e]
	return ok
}

func (d *dep) add(e *Effect) {
	d.members[e] = struct{}{}
	d.subs = append(d.subs, e)
}

func (d *dep) remove(e *Effect) {
	if _, ok := d.members[e]; !ok {
		return
	}
	delete(d.members, e)
	for i, sub := range d.subs {
		if sub == e {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

// Track records that the running effect depends on key of target.
// It does nothing when tracking is paused or no effect is running.
func Track(target Target, op Op, key Key) {
	tc := lookupTrackingContext()
	if tc == nil || !tc.shouldTrack || tc.activeEffect == nil {
		return
	}
	m := target.targetMeta()
	if m == nil {
		return
	}
	if m.deps == nil {
		m.deps = &ordered.Map[Key, *dep]{}
	}
	d, ok := m.deps.Get(key)
	if !ok {
		d = newDep()
		m.deps.Set(key, d)
	}

	e := tc.activeEffect
	if d.has(e) || !e.active.Load() {
		return
	}
	d.add(e)
	e.deps = append(e.deps, d)

	obs := getObserver()
	if obs == nil && !(DevMode && e.onTrack != nil) {
		return
	}
	event := DebuggerEvent{Effect: e, Target: target, Op: op, Key: key}
	if DevMode && e.onTrack != nil {
		e.onTrack(event)
	}
	if obs != nil {
		obs.OnTrack(event)
	}
}

// Trigger runs or schedules every effect affected by a write to key of
// target. Targets that were never tracked are ignored.
func Trigger(target Target, op Op, key Key, newValue, oldValue any) {
	trigger(target, op, key, newValue, oldValue, nil)
}

func trigger(target Target, op Op, key Key, newValue, oldValue, oldTarget any) {
	m := target.targetMeta()
	if m == nil || m.deps == nil {
		return
	}
	depsMap := m.deps

	var active *Effect
	if tc := lookupTrackingContext(); tc != nil {
		active = tc.activeEffect
	}

	var effects []*Effect
	seen := make(map[*Effect]struct{})
	add := func(d *dep) {
		if d == nil {
			return
		}
		for _, e := range d.subs {
			if e == active && !e.allowRecurse {
				continue
			}
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			effects = append(effects, e)
		}
	}
	get := func(k Key) *dep {
		d, _ := depsMap.Get(k)
		return d
	}

	_, isArray := target.(*Array)
	_, isMap := target.(*Map)

	switch {
	case op == OpClear:
		depsMap.Range(func(_ Key, d *dep) bool {
			add(d)
			return true
		})

	case isArray && key == LengthKey:
		newLength, _ := newValue.(int)
		depsMap.Range(func(k Key, d *dep) bool {
			if k == LengthKey {
				add(d)
			} else if i, ok := k.(int); ok && i >= newLength {
				add(d)
			}
			return true
		})

	default:
		if key != nil {
			add(get(key))
		}
		switch op {
		case OpAdd:
			if !isArray {
				add(get(IterateKey))
				if isMap {
					add(get(MapKeyIterateKey))
				}
			} else if isIntegerKey(key) {
				add(get(LengthKey))
			}
		case OpDelete:
			if !isArray {
				add(get(IterateKey))
				if isMap {
					add(get(MapKeyIterateKey))
				}
			}
		case OpSet:
			if isMap {
				add(get(IterateKey))
			}
		}
	}

	obs := getObserver()
	for _, e := range effects {
		// An earlier effect in this pass may have stopped e.
		if !e.active.Load() {
			continue
		}
		if obs != nil || (DevMode && e.onTrigger != nil) {
			event := DebuggerEvent{
				Effect:    e,
				Target:    target,
				Op:        op,
				Key:       key,
				NewValue:  newValue,
				OldValue:  oldValue,
				OldTarget: oldTarget,
			}
			if DevMode && e.onTrigger != nil {
				e.onTrigger(event)
			}
			if obs != nil {
				obs.OnTrigger(event)
			}
		}
		if e.scheduler != nil {
			e.scheduler(e)
		} else {
			e.Run()
		}
	}
}

func isIntegerKey(key Key) bool {
	i, ok := key.(int)
	return ok && i >= 0
}
