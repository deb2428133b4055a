package httpapi

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func scrape(t *testing.T) []byte {
	t.Helper()
	mrr := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(mrr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if mrr.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", mrr.Code)
	}
	return mrr.Body.Bytes()
}

// TestMetricsMiddleware_UsesRoutePattern ensures the metrics middleware labels
// by the chi route pattern instead of the raw URL path.
func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rr.Code)
	}

	body := scrape(t)
	if !bytes.Contains(body, []byte(`assemblyd_http_requests_total{method="GET",path="/items/{id}",status="418"}`)) {
		preview := body
		if len(preview) > 400 {
			preview = preview[:400]
		}
		t.Fatalf("expected route pattern label; got: %q", string(preview))
	}
}

func TestMetricsEndpoint_ExposesWatchGauge(t *testing.T) {
	h := NewMux(&mockService{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("assemblyd_http_watch_streams")) {
		t.Fatalf("watch gauge missing")
	}
}

func TestStatusRecorder_Flush(t *testing.T) {
	rr := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rr, status: http.StatusOK}
	sr.Flush()
	if !rr.Flushed {
		t.Fatalf("flush not forwarded")
	}
}

func TestWatchCloseReason(t *testing.T) {
	bg := context.Background()
	canceled, cancel := context.WithCancel(bg)
	cancel()
	expired, cancel2 := context.WithTimeout(bg, -time.Second)
	defer cancel2()

	cases := []struct {
		name        string
		ctx, reqCtx context.Context
		err         error
		want        string
	}{
		{"error", bg, bg, errors.New("boom"), "error"},
		{"timeout", expired, bg, context.DeadlineExceeded, "timeout"},
		{"client", canceled, canceled, context.Canceled, "client"},
		{"shutdown", canceled, bg, context.Canceled, "shutdown"},
		{"done", bg, bg, nil, "done"},
	}
	for _, c := range cases {
		if got := watchCloseReason(c.ctx, c.reqCtx, c.err); got != c.want {
			t.Fatalf("%s: got %q want %q", c.name, got, c.want)
		}
	}
}
