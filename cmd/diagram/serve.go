package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/diagram"
	"github.com/aretw0/diagram/internal/presentation/tui"
	httpAdapter "github.com/aretw0/diagram/pkg/adapters/http"
	redisAdapter "github.com/aretw0/diagram/pkg/adapters/redis"
	"github.com/aretw0/diagram/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [model-file]",
	Short: "Start the HTTP server",
	Long: `Starts the engine behind the HTTP API: model operations, an SSE stream of
outbound actions on /events, and Prometheus metrics on /metrics. The model file,
when given, is watched and patched into the running model on every save.
With redis.addr set, outbound actions are also published to Redis.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, args)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			a.cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("redis") {
			a.cfg.Redis.Addr, _ = cmd.Flags().GetString("redis")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, a)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (overrides http.addr)")
	serveCmd.Flags().String("redis", "", "Redis address for the action bridge (overrides redis.addr)")
}

func runServe(ctx context.Context, a *app) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return err
	}

	eng, err := a.newEngine(
		diagram.WithLifecycleHooks(metrics.Hooks()),
		diagram.WithDeliveryHook(metrics.ObserveDelivery),
	)
	if err != nil {
		return err
	}

	api, err := httpAdapter.NewHandler(eng,
		httpAdapter.WithLogger(a.logger),
		httpAdapter.WithVersion(diagram.Version),
	)
	if err != nil {
		return err
	}
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Mount("/", api)

	if a.cfg.Redis.Addr != "" {
		bridge := redisAdapter.New(a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB,
			redisAdapter.WithPrefix(a.cfg.Redis.Prefix),
			redisAdapter.WithLogger(a.logger),
		)
		bridge.Attach(eng)
		go func() {
			if err := bridge.Run(ctx, eng); err != nil {
				a.logger.Error("redis bridge stopped", "error", err)
			}
		}()
	}

	a.follow(ctx, eng)

	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		if tui.IsTerminal(os.Stderr) {
			tui.PrintBanner(os.Stderr)
		}
		a.logger.Info("diagram server listening", "addr", srv.Addr, "model", a.cfg.Model.Path)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		a.logger.Info("shutdown signal received")

		// Give outstanding requests (and SSE streams) a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		a.logger.Info("diagram server stopped gracefully")
		return nil
	}
}
