package registry

import "runtime"

// HandleState is the lifecycle state of a subscription.
type HandleState int

const (
	StateActive HandleState = iota
	StatePaused
	StateDisposed
)

func (s HandleState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Handle is the caller-visible side of one subscription.
//
// Keep the Handle reachable for as long as notifications are wanted: a
// Handle that becomes unreachable without Dispose is disposed by a runtime
// cleanup at some unspecified later time.
type Handle struct {
	r       *Registry
	rec     *record
	cleanup runtime.Cleanup
}

func newHandle(r *Registry, rc *record) *Handle {
	h := &Handle{r: r, rec: rc}
	h.cleanup = runtime.AddCleanup(h, r.disposeRecord, rc)
	return h
}

// ID returns the listener id.
func (h *Handle) ID() ListenerID { return h.rec.id }

// Key returns the type key this handle listens on.
func (h *Handle) Key() TypeKey { return h.rec.key }

// State returns the current lifecycle state.
func (h *Handle) State() HandleState { return h.rec.currentState() }

// Active reports whether notifications are currently delivered.
func (h *Handle) Active() bool { return h.rec.active() }

// Pause stops delivery without unregistering. Pausing a paused handle is a
// no-op; pausing a disposed handle returns ErrObjectDisposed.
func (h *Handle) Pause() error { return h.rec.setActive(false) }

// Resume restores delivery for subsequent events only.
func (h *Handle) Resume() error { return h.rec.setActive(true) }

// Dispose unregisters the listener and releases its callbacks. Repeated
// calls are no-ops.
func (h *Handle) Dispose() {
	if !h.rec.dispose() {
		return
	}
	h.cleanup.Stop()
	h.r.unsubscribe(h.rec)
}
