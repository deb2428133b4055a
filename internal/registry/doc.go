// Package registry tracks every live instance of every type that opts in and
// lets observers subscribe to assign/unassign events per type. It is
// structured into small files by concern:
//
//   - typekey.go: TypeKey derivation from fully qualified type names.
//   - registry.go: core Registry type, lock layout, simple probes.
//   - config.go: Config, functional options, New/NewWithConfig, Default.
//   - instances.go: Register/Unregister/Query over the instance map.
//   - listeners.go: Listener, Subscribe and the listener map.
//   - dispatch.go: per-listener notification with failure containment.
//   - handle.go: Handle state machine (active, paused, disposed).
//   - lifecycle.go: Attach/AttachWeak bindings and the embeddable Tracked.
//   - generic.go: QueryOf/SubscribeTo typed helpers.
//   - errors.go: ErrInvalidArgument, ErrObjectDisposed, ObserverPanic.
//   - metrics.go, events.go: Prometheus collectors and lifecycle events.
//   - status_report.go, watch.go: introspection used by the HTTP layer.
//
// Locking:
//
// The instance lock is always acquired before the listener lock. Callbacks
// run synchronously on the goroutine that called Register, Unregister or
// Subscribe, with the instance lock held. A slow callback therefore stalls
// every other registration on the same Registry. Callbacks may Pause,
// Resume or Dispose any handle, including their own, and may Subscribe
// without replay; calling Register, Unregister, Query or Subscribe with
// replay on the same Registry from inside a callback deadlocks.
//
// Finalization:
//
// Bindings created with AttachWeak and Handles dropped without Dispose are
// cleaned up by the Go runtime after they become unreachable. That cleanup
// has no timing guarantee and may never run before the process exits;
// callers should Close bindings and Dispose handles explicitly and treat
// Query results as recently live rather than currently live.
package registry
