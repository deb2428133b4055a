package types

import "github.com/go-openapi/strfmt"

// TypeSummary describes one registered type.
type TypeSummary struct {
	// Fully qualified type name used as the registry key.
	// example: *assemblyd/internal/httpapi.RequestSession
	Key string `json:"key" example:"*assemblyd/internal/httpapi.RequestSession"`
	// Number of live registered instances.
	// example: 3
	Instances int `json:"instances" example:"3"`
	// Listeners currently receiving notifications.
	// example: 1
	ListenersActive int `json:"listeners_active" example:"1"`
	// Listeners registered but paused.
	// example: 0
	ListenersPaused int `json:"listeners_paused" example:"0"`
}

// TypesResponse wraps the list returned by GET /types.
type TypesResponse struct {
	// Registered types in key order.
	Types []TypeSummary `json:"types"`
}

// WatchEvent is one NDJSON line of GET /watch?key=<type key>.
type WatchEvent struct {
	// Event kind: assign, unassign, or error.
	// example: assign
	Kind string `json:"kind" example:"assign"`
	// Type key the event belongs to.
	// example: *assemblyd/internal/httpapi.RequestSession
	Type string `json:"type" example:"*assemblyd/internal/httpapi.RequestSession"`
	// Printable description of the instance; empty for collected instances.
	// example: GET /status (req-1)
	Instance string `json:"instance,omitempty" example:"GET /status (req-1)"`
	// Error text for kind=error.
	Error string `json:"error,omitempty"`
	// Time the event was observed.
	Time strfmt.DateTime `json:"time"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid argument type: empty type name
	Error string `json:"error" example:"invalid argument type: empty type name"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Registered types.
	Types []TypeSummary `json:"types"`
	// Live instances across all types.
	// example: 12
	InstancesTotal int `json:"instances_total" example:"12"`
	// Registered listeners across all types, paused included.
	// example: 2
	ListenersTotal int `json:"listeners_total" example:"2"`
	// Listener callbacks invoked since start.
	// example: 40
	NotificationsTotal uint64 `json:"notifications_total" example:"40"`
	// Listener callbacks that failed since start.
	// example: 0
	ObserverFailuresTotal uint64 `json:"observer_failures_total" example:"0"`
	// Uptime of the registry in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Time the registry was created.
	StartedAt strfmt.DateTime `json:"started_at"`
	// Server time.
	ServerTime strfmt.DateTime `json:"server_time"`
}
