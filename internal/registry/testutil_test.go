package registry

import (
	"runtime"
	"sync"
	"testing"
	"time"
)

type widget struct{ name string }

func (w *widget) String() string { return "widget " + w.name }

type gadget struct{ id int }

// tags is not comparable, so removal falls back to deep equality.
type tags []string

func mustKey[T any](t *testing.T) TypeKey {
	t.Helper()
	k, err := KeyFor[T]()
	if err != nil {
		t.Fatalf("KeyFor: %v", err)
	}
	return k
}

// recorder collects callback arguments in order.
type recorder struct {
	mu   sync.Mutex
	seen []any
}

func (r *recorder) add(v any) error {
	r.mu.Lock()
	r.seen = append(r.seen, v)
	r.mu.Unlock()
	return nil
}

func (r *recorder) values() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.seen...)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

// eventually polls cond, running the GC between attempts so runtime
// cleanups get a chance to fire. Returns false on timeout.
func eventually(d time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		runtime.GC()
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
