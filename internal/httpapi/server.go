package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"assemblyd/internal/registry"
	"assemblyd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
// *registry.Registry satisfies it.
type Service interface {
	Types(match string) []types.TypeSummary
	Summary(key registry.TypeKey) (types.TypeSummary, bool)
	Status() types.StatusResponse
	Watch(ctx context.Context, key registry.TypeKey, replay bool, w io.Writer, flush func()) error
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if trackingRegistry != nil {
		r.Use(TrackRequests(trackingRegistry))
	}

	r.Get("/types", handleTypes(svc))
	r.Get("/type", handleType(svc))
	r.Get("/watch", handleWatch(svc))
	r.Get("/status", handleStatus(svc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("draining"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// handleTypes lists registered types.
//
// @Summary      List registered types
// @Param        match  query  string  false  "fuzzy filter on the type key"
// @Produce      json
// @Success      200  {object}  types.TypesResponse
// @Router       /types [get]
func handleTypes(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.TypesResponse{Types: svc.Types(r.URL.Query().Get("match"))})
	}
}

// handleType describes one type.
//
// @Summary      Describe one type
// @Param        key  query  string  true  "fully qualified type name"
// @Produce      json
// @Success      200  {object}  types.TypeSummary
// @Failure      400  {object}  types.ErrorResponse
// @Failure      404  {object}  types.ErrorResponse
// @Router       /type [get]
func handleType(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := registry.ParseTypeKey(r.URL.Query().Get("key"))
		if err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		s, ok := svc.Summary(key)
		if !ok {
			writeJSONError(w, http.StatusNotFound, "type not registered: "+key.String())
			return
		}
		writeJSON(w, s)
	}
}

// handleStatus reports registry-wide totals.
//
// @Summary      Registry status
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func handleStatus(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	}
}

// handleWatch streams assign/unassign events for one type as NDJSON.
//
// @Summary      Watch a type
// @Param        key     query  string  true   "fully qualified type name"
// @Param        replay  query  bool    false  "stream already registered instances first"
// @Produce      application/x-ndjson
// @Success      200  {object}  types.WatchEvent
// @Failure      400  {object}  types.ErrorResponse
// @Router       /watch [get]
func handleWatch(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		key, err := registry.ParseTypeKey(q.Get("key"))
		if err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		replay, _ := strconv.ParseBool(q.Get("replay"))

		ws := newWatchSession(key)
		defer ws.Close()
		watchStreams.Inc()
		defer watchStreams.Dec()

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Header().Set("X-Watch-ID", ws.ID)
		var flush func()
		if f, ok := w.(http.Flusher); ok {
			flush = f.Flush
		}
		writer := io.Writer(w)
		lvl := requestLogLevel(r)
		if lvl >= LevelDebug {
			writer = io.MultiWriter(w, &loggingLineWriter{})
		}

		// Join server base context with request context so shutdown ends streams too.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if watchTimeout > 0 {
			var tcancel context.CancelFunc
			ctx, tcancel = context.WithTimeout(ctx, time.Duration(watchTimeout)*time.Second)
			defer tcancel()
		}

		start := time.Now()
		logRequest(r, lvl, "watch start", nil, map[string]any{"type": key.String(), "watch_id": ws.ID, "replay": replay})
		err = svc.Watch(ctx, key, replay, writer, flush)
		reason := watchCloseReason(ctx, r.Context(), err)
		watchClosedTotal.WithLabelValues(reason).Inc()
		if reason == "error" {
			// argument errors surface before anything is streamed
			if registry.IsInvalidArgument(err) {
				writeJSONError(w, statusFor(err), err.Error())
			}
			logRequest(r, lvl, "watch end", err, map[string]any{"watch_id": ws.ID, "dur": time.Since(start).String()})
			return
		}
		if reason == "timeout" {
			logRequest(r, lvl, "watch timeout", nil, map[string]any{"watch_id": ws.ID})
		}
		logRequest(r, lvl, "watch end", nil, map[string]any{"watch_id": ws.ID, "reason": reason, "dur": time.Since(start).String()})
	}
}

// watchCloseReason classifies why a watch stream ended. reqCtx is the
// client's request context; ctx is the joined stream context.
func watchCloseReason(ctx, reqCtx context.Context, err error) string {
	switch {
	case err != nil && ctx.Err() == nil:
		return "error"
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "timeout"
	case reqCtx.Err() != nil:
		return "client"
	case ctx.Err() != nil:
		return "shutdown"
	default:
		return "done"
	}
}
