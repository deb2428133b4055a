package registry

import "fmt"

// dispatch notifies the listeners of key that were active when the walk
// began. Must be called with instMu held. lisMu is only held while the
// snapshot is taken, so callbacks may dispose their own handle.
func (r *Registry) dispatch(key TypeKey, kind string, instance any) {
	r.lisMu.Lock()
	recs := r.listeners[key]
	if len(recs) == 0 {
		r.lisMu.Unlock()
		return
	}
	targets := make([]*record, 0, len(recs))
	for _, rc := range recs {
		if rc.active() {
			targets = append(targets, rc)
		}
	}
	r.lisMu.Unlock()

	for _, rc := range targets {
		r.deliver(rc, kind, instance)
	}
}

// deliver invokes one callback of rc. The active flag is re-checked so a
// listener paused or disposed earlier in the same walk is skipped.
func (r *Registry) deliver(rc *record, kind string, instance any) {
	cb, ok := rc.callbacks()
	if !ok {
		return
	}
	fn := cb.OnAssign
	if kind == EventUnassign {
		fn = cb.OnUnassign
	}
	if fn == nil {
		return
	}
	r.notifications.Add(1)
	r.metrics.incNotification(rc.key, kind)

	err := invokeObserver(rc.key, kind, fn, instance)
	if err == nil {
		return
	}
	r.failures.Add(1)
	r.metrics.incFailure(rc.key)
	r.publish(Event{Name: EventObserverFailure, Type: rc.key.name, Fields: map[string]any{"listener": rc.id, "kind": kind, "error": err.Error()}})
	if cb.OnException == nil {
		r.log.Debug().Err(err).Str("type", rc.key.name).Uint64("listener", uint64(rc.id)).Str("kind", kind).Msg("observer failure dropped")
		return
	}
	if perr := invokeException(cb.OnException, err); perr != nil {
		r.log.Warn().Err(perr).Str("type", rc.key.name).Uint64("listener", uint64(rc.id)).Msg("exception callback panicked")
	}
}

func invokeObserver(key TypeKey, kind string, fn func(any) error, instance any) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &ObserverPanic{Key: key, Kind: kind, Value: v}
		}
	}()
	return fn(instance)
}

// invokeException swallows a panic from the exception callback and returns
// it as an error for logging only.
func invokeException(fn func(error), err error) (perr error) {
	defer func() {
		if v := recover(); v != nil {
			perr = fmt.Errorf("exception callback: %v", v)
		}
	}()
	fn(err)
	return nil
}
