package registry

import (
	"sync"

	"github.com/rs/zerolog"
)

// Config encapsulates the optional collaborators of a Registry.
// Zero values select no-op implementations.
type Config struct {
	// Logger receives debug traces and contained observer failures.
	Logger *zerolog.Logger
	// Metrics, when set, mirrors registry cardinalities to Prometheus.
	Metrics *Metrics
	// Publisher receives lifecycle events (assign, unassign, subscribe...).
	Publisher EventPublisher
}

// Option mutates a Config before construction.
type Option func(*Config)

// WithLogger installs a structured logger.
func WithLogger(l zerolog.Logger) Option { return func(c *Config) { c.Logger = &l } }

// WithMetrics installs Prometheus collectors.
func WithMetrics(m *Metrics) Option { return func(c *Config) { c.Metrics = m } }

// WithEventPublisher installs an event sink.
func WithEventPublisher(p EventPublisher) Option { return func(c *Config) { c.Publisher = p } }

// New constructs an empty Registry from functional options.
func New(opts ...Option) *Registry {
	var cfg Config
	for _, fn := range opts {
		fn(&cfg)
	}
	return NewWithConfig(cfg)
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry, creating it on first use.
// Tests and embedders that want isolation should call New instead.
func Default() *Registry {
	defaultOnce.Do(func() { defaultReg = New() })
	return defaultReg
}
