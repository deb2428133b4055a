package registry

// QueryOf returns the live instances registered under T's key, converted
// to T. Values whose dynamic type is not T are skipped.
func QueryOf[T any](r *Registry) ([]T, error) {
	key, err := KeyFor[T]()
	if err != nil {
		return nil, err
	}
	all, err := r.Query(key)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(all))
	for _, v := range all {
		if t, ok := v.(T); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// SubscribeTo subscribes to instances of T with typed callbacks. onUnassign
// and onException may be nil. Unassign notifications for collected weak
// registrations arrive as the zero T; any other value that is not a T is
// skipped.
func SubscribeTo[T any](r *Registry, onAssign, onUnassign func(T) error, onException func(error), replay bool) (*Handle, error) {
	if onAssign == nil {
		return nil, invalidArgument("onAssign", "callback is required")
	}
	key, err := KeyFor[T]()
	if err != nil {
		return nil, err
	}
	l := Listener{OnAssign: typed(onAssign), OnException: onException}
	if onUnassign != nil {
		l.OnUnassign = typed(onUnassign)
	}
	return r.Subscribe(key, l, replay)
}

func typed[T any](fn func(T) error) func(any) error {
	return func(v any) error {
		t, ok := v.(T)
		if !ok && v != nil {
			return nil
		}
		return fn(t)
	}
}
