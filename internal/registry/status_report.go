package registry

import (
	"sort"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/sahilm/fuzzy"

	"assemblyd/pkg/types"
)

// Summary returns the introspection view of key. ok is false when key has
// neither instances nor listeners.
func (r *Registry) Summary(key TypeKey) (types.TypeSummary, bool) {
	r.instMu.Lock()
	defer r.instMu.Unlock()
	r.lisMu.Lock()
	defer r.lisMu.Unlock()
	_, hasInst := r.instances[key]
	_, hasLis := r.listeners[key]
	if !hasInst && !hasLis {
		return types.TypeSummary{}, false
	}
	return r.summaryLocked(key), true
}

// Types lists every known type. A non-empty match keeps only keys that
// fuzzy-match it.
func (r *Registry) Types(match string) []types.TypeSummary {
	r.instMu.Lock()
	r.lisMu.Lock()
	out := r.summariesLocked()
	r.lisMu.Unlock()
	r.instMu.Unlock()

	if match == "" {
		return out
	}
	names := make([]string, len(out))
	for i, s := range out {
		names[i] = s.Key
	}
	matches := fuzzy.Find(match, names)
	filtered := make([]types.TypeSummary, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, out[m.Index])
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Key < filtered[j].Key })
	return filtered
}

// Status builds the registry-wide status response for /status.
func (r *Registry) Status() types.StatusResponse {
	r.instMu.Lock()
	r.lisMu.Lock()
	summaries := r.summariesLocked()
	r.lisMu.Unlock()
	r.instMu.Unlock()

	now := time.Now()
	resp := types.StatusResponse{
		Types:                 summaries,
		NotificationsTotal:    r.notifications.Load(),
		ObserverFailuresTotal: r.failures.Load(),
		UptimeSeconds:         int64(now.Sub(r.startTime).Seconds()),
		StartedAt:             strfmt.DateTime(r.startTime),
		ServerTime:            strfmt.DateTime(now),
	}
	for _, s := range summaries {
		resp.InstancesTotal += s.Instances
		resp.ListenersTotal += s.ListenersActive + s.ListenersPaused
	}
	return resp
}

// Ready reports whether the registry should receive traffic: false for a
// nil registry and after Drain.
func (r *Registry) Ready() bool { return r != nil && !r.draining.Load() }

// Drain marks the registry as going away so readiness probes fail while
// the owner shuts down. Registration and notification keep working.
func (r *Registry) Drain() {
	if r.draining.CompareAndSwap(false, true) {
		r.log.Info().Msg("draining")
	}
}

func (r *Registry) summariesLocked() []types.TypeSummary {
	seen := make(map[TypeKey]struct{}, len(r.instances)+len(r.listeners))
	for k := range r.instances {
		seen[k] = struct{}{}
	}
	for k := range r.listeners {
		seen[k] = struct{}{}
	}
	out := make([]types.TypeSummary, 0, len(seen))
	for k := range seen {
		out = append(out, r.summaryLocked(k))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (r *Registry) summaryLocked(key TypeKey) types.TypeSummary {
	s := types.TypeSummary{Key: key.name}
	for _, sl := range r.instances[key] {
		if _, ok := sl.get(); ok {
			s.Instances++
		}
	}
	s.ListenersActive, s.ListenersPaused = countStates(r.listeners[key])
	return s
}
