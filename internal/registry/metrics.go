package registry

import "github.com/prometheus/client_golang/prometheus"

// Metrics mirrors registry cardinalities and dispatch outcomes to
// Prometheus. A nil *Metrics is valid and records nothing.
type Metrics struct {
	instances     *prometheus.GaugeVec
	listeners     *prometheus.GaugeVec
	notifications *prometheus.CounterVec
	failures      *prometheus.CounterVec
}

// NewMetrics builds the registry collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		instances: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "assemblyd",
				Subsystem: "registry",
				Name:      "instances",
				Help:      "Registered instances per type",
			},
			[]string{"type"},
		),
		listeners: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "assemblyd",
				Subsystem: "registry",
				Name:      "listeners",
				Help:      "Registered listeners per type, paused included",
			},
			[]string{"type"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "assemblyd",
				Subsystem: "registry",
				Name:      "notifications_total",
				Help:      "Listener callbacks invoked",
			},
			[]string{"type", "kind"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "assemblyd",
				Subsystem: "registry",
				Name:      "observer_failures_total",
				Help:      "Listener callbacks that returned an error or panicked",
			},
			[]string{"type"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.instances, m.listeners, m.notifications, m.failures)
	}
	return m
}

func (m *Metrics) setInstances(key TypeKey, n int) {
	if m == nil {
		return
	}
	m.instances.WithLabelValues(key.name).Set(float64(n))
}

// deleteInstances drops the series so removed types do not linger.
func (m *Metrics) deleteInstances(key TypeKey) {
	if m == nil {
		return
	}
	m.instances.DeleteLabelValues(key.name)
}

func (m *Metrics) setListeners(key TypeKey, n int) {
	if m == nil {
		return
	}
	m.listeners.WithLabelValues(key.name).Set(float64(n))
}

func (m *Metrics) deleteListeners(key TypeKey) {
	if m == nil {
		return
	}
	m.listeners.DeleteLabelValues(key.name)
}

func (m *Metrics) incNotification(key TypeKey, kind string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(key.name, kind).Inc()
}

func (m *Metrics) incFailure(key TypeKey) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(key.name).Inc()
}
