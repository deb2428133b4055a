package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"assemblyd/internal/config"
	"assemblyd/internal/httpapi"
	"assemblyd/pkg/types"
)

func TestServe_StartsAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	errc := make(chan error, 1)
	cfg := config.Config{Addr: "127.0.0.1:0", TrackRequests: true}.WithDefaults()
	go func() { errc <- serve(ctx, cfg, zerolog.New(io.Discard), prometheus.NewRegistry(), ready) }()
	defer httpapi.SetTrackingRegistry(nil)
	defer httpapi.SetBaseContext(nil)

	var addr string
	select {
	case addr = <-ready:
	case err := <-errc:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not start")
	}
	base := "http://" + addr

	resp, err := http.Get(base + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status=%d", resp.StatusCode)
	}

	// with request tracking on, /types sees the request serving it
	got, err := fetchTypes(ctx, http.DefaultClient, base, "RequestSession")
	if err != nil {
		t.Fatalf("fetchTypes: %v", err)
	}
	if len(got.Types) != 1 || got.Types[0].Instances != 1 {
		t.Fatalf("types=%+v", got.Types)
	}

	resp, err = http.Get(base + "/status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var st types.StatusResponse
	_ = json.NewDecoder(resp.Body).Decode(&st)
	resp.Body.Close()
	if st.InstancesTotal != 1 {
		t.Fatalf("status=%+v", st)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("serve did not stop")
	}
}

func TestServe_ListenError(t *testing.T) {
	cfg := config.Config{Addr: "256.0.0.1:bad"}.WithDefaults()
	err := serve(context.Background(), cfg, zerolog.New(io.Discard), prometheus.NewRegistry(), nil)
	httpapi.SetBaseContext(nil)
	if err == nil {
		t.Fatalf("expected listen error")
	}
}
