package httpapi

import "assemblyd/internal/registry"

// watchTimeout bounds how long a /watch stream may stay open, in seconds.
// Zero means no additional timeout beyond client disconnect and shutdown.
var watchTimeout = int64(0)

// SetWatchTimeoutSeconds sets the watch timeout in seconds (0 disables).
func SetWatchTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	watchTimeout = sec
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}

// trackingRegistry, when set, receives a RequestSession for every in-flight
// request and a WatchSession for every open watch stream.
var trackingRegistry *registry.Registry

// SetTrackingRegistry enables self-tracking of requests and watch streams.
// nil disables it.
func SetTrackingRegistry(r *registry.Registry) { trackingRegistry = r }
