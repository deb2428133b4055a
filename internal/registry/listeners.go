package registry

import (
	"reflect"
	"sync"
)

// ListenerID uniquely identifies a subscription within a Registry.
type ListenerID uint64

// Listener bundles the callbacks of one subscription. OnAssign is required.
// A callback fails by returning an error or by panicking; either way the
// failure is handed to OnException (if set) and never reaches the caller of
// Register or Unregister.
type Listener struct {
	OnAssign    func(instance any) error
	OnUnassign  func(instance any) error
	OnException func(err error)
}

// record is the registry-side state of one subscription. mu guards state
// and cb; it is acquired after lisMu when both are needed.
type record struct {
	id  ListenerID
	key TypeKey

	mu    sync.Mutex
	state HandleState
	cb    Listener
}

func (rc *record) active() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.state == StateActive
}

// callbacks returns the listener's callbacks when it is currently active.
func (rc *record) callbacks() (Listener, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.state != StateActive {
		return Listener{}, false
	}
	return rc.cb, true
}

func (rc *record) setActive(on bool) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.state == StateDisposed {
		return &objectDisposedError{id: rc.id, key: rc.key}
	}
	if on {
		rc.state = StateActive
	} else {
		rc.state = StatePaused
	}
	return nil
}

// dispose reports whether this call performed the transition.
func (rc *record) dispose() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.state == StateDisposed {
		return false
	}
	rc.state = StateDisposed
	rc.cb = Listener{}
	return true
}

func (rc *record) currentState() HandleState {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.state
}

// Subscribe registers l for instances of key. With replay, OnAssign is
// invoked for every instance already registered under key before Subscribe
// returns; the instance lock is held from the snapshot through the replay,
// so a concurrent Register is either replayed or notified, never both.
func (r *Registry) Subscribe(key TypeKey, l Listener, replay bool) (*Handle, error) {
	if key.IsZero() {
		return nil, invalidArgument("type", "zero type key")
	}
	if l.OnAssign == nil {
		return nil, invalidArgument("OnAssign", "callback is required")
	}
	rc := &record{
		id:    ListenerID(r.nextListener.Add(1)),
		key:   key,
		state: StateActive,
		cb:    l,
	}

	replayed := 0
	if replay {
		r.instMu.Lock()
		existing := r.snapshotLocked(key)
		r.appendListener(rc)
		for _, inst := range existing {
			r.deliver(rc, EventAssign, inst)
		}
		r.instMu.Unlock()
		replayed = len(existing)
	} else {
		r.appendListener(rc)
	}

	r.log.Debug().Str("type", key.name).Uint64("listener", uint64(rc.id)).Bool("replay", replay).Int("replayed", replayed).Msg("subscribe")
	r.publish(Event{Name: EventSubscribe, Type: key.name, Fields: map[string]any{"listener": rc.id, "replayed": replayed}})
	return newHandle(r, rc), nil
}

// SubscribeType is Subscribe for an explicit reflect.Type.
func (r *Registry) SubscribeType(t reflect.Type, l Listener, replay bool) (*Handle, error) {
	key, err := KeyForType(t)
	if err != nil {
		return nil, err
	}
	return r.Subscribe(key, l, replay)
}

// ListenerCount returns how many listeners are registered for key, split
// by state. Paused listeners stay registered and are counted.
func (r *Registry) ListenerCount(key TypeKey) (active, paused int) {
	r.lisMu.Lock()
	defer r.lisMu.Unlock()
	return countStates(r.listeners[key])
}

func countStates(recs []*record) (active, paused int) {
	for _, rc := range recs {
		switch rc.currentState() {
		case StateActive:
			active++
		case StatePaused:
			paused++
		}
	}
	return active, paused
}

func (r *Registry) appendListener(rc *record) {
	r.lisMu.Lock()
	r.listeners[rc.key] = append(r.listeners[rc.key], rc)
	r.metrics.setListeners(rc.key, len(r.listeners[rc.key]))
	r.lisMu.Unlock()
}

// unsubscribe removes rc by id, dropping the entry when it becomes empty.
func (r *Registry) unsubscribe(rc *record) {
	r.lisMu.Lock()
	recs := r.listeners[rc.key]
	next := make([]*record, 0, len(recs))
	for _, other := range recs {
		if other.id != rc.id {
			next = append(next, other)
		}
	}
	if len(next) == 0 {
		delete(r.listeners, rc.key)
		r.metrics.deleteListeners(rc.key)
	} else {
		r.listeners[rc.key] = next
		r.metrics.setListeners(rc.key, len(next))
	}
	r.lisMu.Unlock()

	r.log.Debug().Str("type", rc.key.name).Uint64("listener", uint64(rc.id)).Msg("dispose")
	r.publish(Event{Name: EventDispose, Type: rc.key.name, Fields: map[string]any{"listener": rc.id}})
}

// disposeRecord is the finalization path for handles dropped without Dispose.
func (r *Registry) disposeRecord(rc *record) {
	if rc.dispose() {
		r.unsubscribe(rc)
	}
}
