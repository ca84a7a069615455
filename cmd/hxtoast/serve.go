package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pthm/hxtoast"
	"github.com/pthm/hxtoast/example"
)

type serveConfig struct {
	addr      string
	key       string
	sensitive bool
	idle      time.Duration
	debug     bool
}

func serveCmd() *cobra.Command {
	var cfg serveConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bread demo over HTTP",
		Long: `Serve the bread demo: a button that adds Sourdough and Rye toasts,
a live count, and the toast region.

Prometheus metrics are exposed at /metrics.

Examples:
  hxtoast serve
  hxtoast serve --addr=:3000 --key="$TOAST_KEY"
  hxtoast serve --sensitive --idle=10m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.key == "" {
				cfg.key = os.Getenv("HXTOAST_KEY")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.addr, "addr", "a", ":8080", "Address to listen on")
	cmd.Flags().StringVarP(&cfg.key, "key", "k", "", "Close token key (default $HXTOAST_KEY, random if unset)")
	cmd.Flags().BoolVar(&cfg.sensitive, "sensitive", false, "Encrypt close tokens instead of signing them")
	cmd.Flags().DurationVar(&cfg.idle, "idle", 30*time.Minute, "Close sessions idle for this long")
	cmd.Flags().BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	return cmd
}

func runServe(ctx context.Context, cfg serveConfig) error {
	level := slog.LevelInfo
	if cfg.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := hxtoast.NewMetrics(hxtoast.MetricsConfig{Registry: promReg})

	provider := hxtoast.NewProvider(hxtoast.WithLogger(logger), hxtoast.WithMetrics(metrics))
	defer provider.CloseAll()

	opts := []hxtoast.HandlerOption{hxtoast.WithHandlerLogger(logger)}
	if cfg.key != "" {
		opts = append(opts, hxtoast.WithKey([]byte(cfg.key)))
	}
	if cfg.sensitive {
		opts = append(opts, hxtoast.WithSensitive())
	}
	toasts := hxtoast.NewHandler(provider, example.NewPresenter(), opts...)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	r.Mount("/", example.New(toasts, logger).Routes())

	srv := &http.Server{
		Addr:              cfg.addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go sweep(ctx, provider, cfg.idle, logger)

	errc := make(chan error, 1)
	go func() {
		logger.Info("serving bread demo", "addr", cfg.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// sweep closes idle sessions until ctx is done.
func sweep(ctx context.Context, p *hxtoast.Provider, idle time.Duration, logger *slog.Logger) {
	if idle <= 0 {
		return
	}
	interval := idle / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := p.Sweep(idle); n > 0 {
				logger.Info("closed idle sessions", "count", n, "open", p.Len())
			}
		}
	}
}
