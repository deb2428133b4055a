package registry

import (
	"runtime"
	"sync"
	"sync/atomic"
	"weak"
)

// Binding ties one registration to the object that owns it. Close is the
// reliable teardown path and runs at most once.
type Binding struct {
	r       *Registry
	key     TypeKey
	slot    uint64
	once    sync.Once
	weak    bool
	cleanup runtime.Cleanup
}

// Attach registers self strongly. The registry keeps self alive until
// Close is called.
func Attach(r *Registry, self any) (*Binding, error) {
	key, err := KeyOf(self)
	if err != nil {
		return nil, err
	}
	s := &slot{id: r.nextSlot.Add(1), value: self}
	r.add(key, s, self)
	return &Binding{r: r, key: key, slot: s.id}, nil
}

// AttachWeak registers self through a weak pointer, so the registry does not
// keep it alive. If self becomes unreachable before Close, a runtime cleanup
// unregisters it eventually; that removal is not timely and unassign
// listeners receive a nil instance for it. Until then Query already skips the
// collected slot.
func AttachWeak[T any](r *Registry, self *T) (*Binding, error) {
	if self == nil {
		return nil, invalidArgument("self", "nil pointer")
	}
	key, err := KeyOf(self)
	if err != nil {
		return nil, err
	}
	wp := weak.Make(self)
	s := &slot{
		id: r.nextSlot.Add(1),
		weak: func() any {
			if p := wp.Value(); p != nil {
				return p
			}
			return nil
		},
	}
	r.add(key, s, self)
	b := &Binding{r: r, key: key, slot: s.id, weak: true}
	b.cleanup = runtime.AddCleanup(self, func(id uint64) { r.removeSlot(key, id) }, s.id)
	return b, nil
}

// Key returns the type key the binding registered under.
func (b *Binding) Key() TypeKey { return b.key }

// Close unregisters the bound instance. Safe to call more than once.
func (b *Binding) Close() {
	b.once.Do(func() {
		if b.weak {
			b.cleanup.Stop()
		}
		b.r.removeSlot(b.key, b.slot)
	})
}

// Tracked can be embedded by types that register themselves on
// construction and unregister on teardown:
//
//	type Session struct {
//	    registry.Tracked
//	}
//
//	func NewSession(r *registry.Registry) (*Session, error) {
//	    s := &Session{}
//	    return s, s.Track(r, s)
//	}
//
//	func (s *Session) Close() { s.Untrack() }
type Tracked struct {
	mu sync.Mutex
	b  atomic.Pointer[Binding]
}

// Track registers self. Tracking an already tracked value fails with
// ErrInvalidArgument before anything is registered, so listeners see no
// events for the rejected call.
func (t *Tracked) Track(r *Registry, self any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.b.Load() != nil {
		return invalidArgument("self", "already tracked")
	}
	b, err := Attach(r, self)
	if err != nil {
		return err
	}
	t.b.Store(b)
	return nil
}

// Untrack unregisters the value tracked by Track. No-op when untracked.
func (t *Tracked) Untrack() {
	t.mu.Lock()
	b := t.b.Swap(nil)
	t.mu.Unlock()
	if b != nil {
		b.Close()
	}
}

// IsTracked reports whether Track has been called without Untrack.
func (t *Tracked) IsTracked() bool { return t.b.Load() != nil }
