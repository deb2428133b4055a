package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"assemblyd/internal/config"
	"assemblyd/internal/httpapi"
	"assemblyd/internal/registry"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API over a process-wide registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat), prometheus.DefaultRegisterer, nil)
		},
	}
	f := cmd.Flags()
	f.String("addr", config.DefaultAddr, "HTTP listen address, e.g. :8080 (env ASSEMBLYD_ADDR)")
	f.String("log-level", config.DefaultLogLevel, "Log level: debug|info|warn|error (env ASSEMBLYD_LOG_LEVEL)")
	f.String("log-format", config.DefaultLogFormat, "Log format: console|json (env ASSEMBLYD_LOG_FORMAT)")
	f.Int("watch-timeout", 0, "Close /watch streams after N seconds (0 = never)")
	f.Bool("track-requests", false, "Register in-flight HTTP requests in the registry")
	f.Bool("cors", false, "Enable CORS")
	f.String("cors-origins", "", "Comma-separated allowed origins, used with --cors")
	return cmd
}

// serve runs the API until ctx is canceled. Registry collectors go to mreg.
// When ready is non-nil it receives the bound listener address once the
// server accepts connections.
func serve(ctx context.Context, cfg config.Config, logger zerolog.Logger, mreg prometheus.Registerer, ready chan<- string) error {
	reg := registry.New(
		registry.WithLogger(logger),
		registry.WithMetrics(registry.NewMetrics(mreg)),
		registry.WithEventPublisher(registry.LogPublisher{Logger: logger.With().Str("component", "events").Logger()}),
	)

	httpapi.SetLogger(logger.With().Str("component", "http").Logger())
	httpapi.SetDefaultLogLevel(httpLogLevel(cfg.LogLevel))
	httpapi.SetWatchTimeoutSeconds(int64(cfg.WatchTimeoutSeconds))
	httpapi.SetCORSOptions(cfg.CORS.Enabled, cfg.CORS.Origins, cfg.CORS.Methods, cfg.CORS.Headers)
	if cfg.TrackRequests {
		httpapi.SetTrackingRegistry(reg)
	} else {
		httpapi.SetTrackingRegistry(nil)
	}

	baseCtx, cancelBase := context.WithCancel(ctx)
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           httpapi.NewMux(reg),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", ln.Addr().String()).Str("version", version).Msg("assemblyd listening")
		if ready != nil {
			ready <- ln.Addr().String()
		}
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		// fail /readyz, then end open watch streams before draining connections
		reg.Drain()
		cancelBase()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logger.Warn().Err(err).Msg("graceful shutdown")
		}
		logger.Info().Msg("assemblyd stopped")
		return nil
	})
	return g.Wait()
}
