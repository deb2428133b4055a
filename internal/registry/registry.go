package registry

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Registry tracks live instances per type and notifies per-type listeners
// when instances are assigned or unassigned.
//
// Two locks guard disjoint state. instMu guards the instance map and is
// always the outer lock; lisMu guards the listener map and is only ever
// taken while instMu is held, never the reverse. Listener callbacks run on
// the mutating goroutine with instMu held and lisMu released, so a callback
// may Pause, Resume, Dispose, or Subscribe without replay, but must not
// Register, Unregister, Query, or Subscribe with replay on the same Registry.
type Registry struct {
	instMu    sync.Mutex
	instances map[TypeKey][]*slot

	lisMu     sync.Mutex
	listeners map[TypeKey][]*record

	nextSlot     atomic.Uint64
	nextListener atomic.Uint64

	notifications atomic.Uint64
	failures      atomic.Uint64

	draining atomic.Bool

	log       zerolog.Logger
	metrics   *Metrics
	pub       atomic.Pointer[publisherBox]
	startTime time.Time
}

// NewWithConfig constructs a Registry from Config.
func NewWithConfig(cfg Config) *Registry {
	r := &Registry{
		instances: make(map[TypeKey][]*slot),
		listeners: make(map[TypeKey][]*record),
		log:       zerolog.Nop(),
		metrics:   cfg.Metrics,
		startTime: time.Now(),
	}
	if cfg.Logger != nil {
		r.log = cfg.Logger.With().Str("component", "registry").Logger()
	}
	r.SetEventPublisher(cfg.Publisher)
	return r
}

// Keys returns every type key with at least one registered instance or
// listener, in lexicographic order.
func (r *Registry) Keys() []TypeKey {
	seen := make(map[TypeKey]struct{})
	r.instMu.Lock()
	for k := range r.instances {
		seen[k] = struct{}{}
	}
	r.lisMu.Lock()
	for k := range r.listeners {
		seen[k] = struct{}{}
	}
	r.lisMu.Unlock()
	r.instMu.Unlock()

	keys := make([]TypeKey, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].name < keys[j].name })
	return keys
}

// hasEntry reports whether any instance entry exists for key, dead weak
// slots included. Used to check that empty entries are not retained.
func (r *Registry) hasEntry(key TypeKey) bool {
	r.instMu.Lock()
	defer r.instMu.Unlock()
	_, ok := r.instances[key]
	return ok
}

// hasListenerEntry is the listener-side counterpart of hasEntry.
func (r *Registry) hasListenerEntry(key TypeKey) bool {
	r.lisMu.Lock()
	defer r.lisMu.Unlock()
	_, ok := r.listeners[key]
	return ok
}
