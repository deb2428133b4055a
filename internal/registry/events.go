package registry

// Event names published by the registry.
const (
	EventAssign          = "assign"
	EventUnassign        = "unassign"
	EventSubscribe       = "subscribe"
	EventDispose         = "dispose"
	EventObserverFailure = "observer_failure"
)

// Event represents a registry lifecycle event.
// Minimal and stable: name + type key and optional fields via key/values.
type Event struct {
	Name   string
	Type   string
	Fields map[string]any
}

// EventPublisher receives events from the registry. Implementations must be
// lightweight and non-blocking: Publish may be called while the instance lock
// is held. Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

type publisherBox struct{ p EventPublisher }

// SetEventPublisher swaps the event sink; nil restores the no-op publisher.
func (r *Registry) SetEventPublisher(p EventPublisher) {
	if p == nil {
		p = noopPublisher{}
	}
	r.pub.Store(&publisherBox{p: p})
}

func (r *Registry) publish(e Event) {
	r.pub.Load().p.Publish(e)
}
