package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"assemblyd/internal/registry"
)

// RequestSession is registered for the lifetime of one HTTP request when
// request tracking is enabled.
type RequestSession struct {
	registry.Tracked
	RequestID string
	Method    string
	Path      string
	Started   time.Time
}

func (s *RequestSession) String() string {
	return fmt.Sprintf("%s %s (%s)", s.Method, s.Path, s.RequestID)
}

// WatchSession is registered while a /watch stream is open.
type WatchSession struct {
	registry.Tracked
	ID      string
	Type    string
	Started time.Time
}

func (s *WatchSession) String() string {
	return fmt.Sprintf("watch %s on %s", s.ID, s.Type)
}

func newWatchSession(key registry.TypeKey) *WatchSession {
	s := &WatchSession{ID: uuid.NewString(), Type: key.String(), Started: time.Now()}
	if trackingRegistry != nil {
		_ = s.Track(trackingRegistry, s)
	}
	return s
}

// Close unregisters the session.
func (s *WatchSession) Close() { s.Untrack() }

// TrackRequests registers a RequestSession in reg for every request while
// it is being served.
func TrackRequests(reg *registry.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := &RequestSession{
				RequestID: middleware.GetReqID(r.Context()),
				Method:    r.Method,
				Path:      r.URL.Path,
				Started:   time.Now(),
			}
			if err := s.Track(reg, s); err == nil {
				defer s.Untrack()
			}
			next.ServeHTTP(w, r)
		})
	}
}
