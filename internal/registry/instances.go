package registry

import "reflect"

// slot holds one registration. Strong slots keep value; weak slots resolve
// through weak and report nil once the object has been collected.
type slot struct {
	id    uint64
	value any
	weak  func() any
}

func (s *slot) get() (any, bool) {
	if s.weak == nil {
		return s.value, true
	}
	v := s.weak()
	return v, v != nil
}

// Register appends instance to the list for its dynamic type and notifies
// active listeners of that type. Registering the same instance twice yields
// two entries.
func (r *Registry) Register(instance any) error {
	key, err := KeyOf(instance)
	if err != nil {
		return err
	}
	r.add(key, &slot{id: r.nextSlot.Add(1), value: instance}, instance)
	return nil
}

// Unregister removes the first registration equal to instance and notifies
// active listeners. Unknown instances are ignored.
func (r *Registry) Unregister(instance any) error {
	key, err := KeyOf(instance)
	if err != nil {
		return err
	}
	r.remove(key, func(s *slot) bool {
		v, ok := s.get()
		return ok && sameInstance(v, instance)
	})
	return nil
}

// Query returns a snapshot of the live instances registered under key, in
// registration order. The slice is never shared with the registry. A key
// that was never derived fails with ErrInvalidArgument; a valid key with no
// registrations yields an empty slice.
func (r *Registry) Query(key TypeKey) ([]any, error) {
	if key.IsZero() {
		return nil, invalidArgument("type", "zero type key")
	}
	r.instMu.Lock()
	defer r.instMu.Unlock()
	return r.snapshotLocked(key), nil
}

// QueryType is Query for an explicit reflect.Type.
func (r *Registry) QueryType(t reflect.Type) ([]any, error) {
	key, err := KeyForType(t)
	if err != nil {
		return nil, err
	}
	return r.Query(key)
}

// Len returns the number of live instances registered under key.
func (r *Registry) Len(key TypeKey) int {
	r.instMu.Lock()
	defer r.instMu.Unlock()
	n := 0
	for _, s := range r.instances[key] {
		if _, ok := s.get(); ok {
			n++
		}
	}
	return n
}

func (r *Registry) snapshotLocked(key TypeKey) []any {
	slots := r.instances[key]
	out := make([]any, 0, len(slots))
	for _, s := range slots {
		if v, ok := s.get(); ok {
			out = append(out, v)
		}
	}
	return out
}

func (r *Registry) add(key TypeKey, s *slot, instance any) {
	r.instMu.Lock()
	r.instances[key] = append(r.instances[key], s)
	n := len(r.instances[key])
	r.metrics.setInstances(key, n)
	r.dispatch(key, EventAssign, instance)
	r.instMu.Unlock()

	r.publish(Event{Name: EventAssign, Type: key.name, Fields: map[string]any{"slot": s.id, "count": n}})
}

// remove deletes the first slot matching match. The instance handed to
// unassign listeners is resolved before removal; for a collected weak slot
// it is nil.
func (r *Registry) remove(key TypeKey, match func(*slot) bool) bool {
	r.instMu.Lock()
	slots := r.instances[key]
	idx := -1
	for i, s := range slots {
		if match(s) {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.instMu.Unlock()
		return false
	}
	removed := slots[idx]
	instance, _ := removed.get()
	// copy instead of shifting in place; snapshots never alias slots anyway
	next := make([]*slot, 0, len(slots)-1)
	next = append(next, slots[:idx]...)
	next = append(next, slots[idx+1:]...)
	if len(next) == 0 {
		delete(r.instances, key)
		r.metrics.deleteInstances(key)
	} else {
		r.instances[key] = next
		r.metrics.setInstances(key, len(next))
	}
	r.dispatch(key, EventUnassign, instance)
	r.instMu.Unlock()

	r.publish(Event{Name: EventUnassign, Type: key.name, Fields: map[string]any{"slot": removed.id, "count": len(next)}})
	return true
}

// removeSlot deletes the slot with the given id, if still present.
func (r *Registry) removeSlot(key TypeKey, id uint64) bool {
	return r.remove(key, func(s *slot) bool { return s.id == id })
}

// sameInstance compares with == when the dynamic type allows it and falls
// back to reflect.DeepEqual otherwise.
func sameInstance(a, b any) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta != nil && ta.Comparable() {
		if eq, ok := tryEqual(a, b); ok {
			return eq
		}
	}
	return reflect.DeepEqual(a, b)
}

// tryEqual guards against structs whose interface fields hold incomparable
// values; == panics on those at run time.
func tryEqual(a, b any) (eq, ok bool) {
	defer func() {
		if recover() != nil {
			eq, ok = false, false
		}
	}()
	return a == b, true
}
