package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"

	"rca-decider/cmd/app"
	"rca-decider/internal/common"
	"rca-decider/internal/features/decision"
	decisionDomain "rca-decider/internal/features/decision/domain"
	decisionService "rca-decider/internal/features/decision/service"
	"rca-decider/internal/features/metric"
	"rca-decider/internal/features/notifier"
	"rca-decider/internal/features/topology"
	"rca-decider/pkg/event"
)

// Run starts the application
func Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	// 1. Load configuration
	cfg, v, err := app.LoadWithViper()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := common.NewLogger(common.LoggerConfig{
		Level:     common.ParseLogLevel(cfg.App.LogLevel),
		Component: cfg.App.Component,
	})
	slog.SetDefault(logger)

	go func() {
		sig := <-signals
		logger.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if err := run(ctx, cfg, v, logger); err != nil {
		logger.Error("application error", "error", err)
		os.Exit(1)
	}
	logger.Info("application stopped")
}

func run(ctx context.Context, cfg *app.Config, v *viper.Viper, logger *slog.Logger) error {
	// 2. Create Kubernetes clients
	kcfg, err := app.NewKubeClients(&cfg.Kubernetes, cfg.App.Component)
	if err != nil {
		return fmt.Errorf("failed to create kubernetes clients: %w", err)
	}

	// 3. Cluster topology and summary pipeline
	topologyService := topology.NewProvider(cfg, kcfg.ClientSet, logger)
	metricProvider := metric.NewProvider(ctx, cfg, topologyService, logger)

	// 4. Action executors
	executors, err := initializeExecutors(cfg, kcfg, logger)
	if err != nil {
		return err
	}

	// 5. Policies and dispatcher
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	dispatcher, err := decision.NewProvider(cfg, metricProvider.Store, topologyService, registry, logger, executors...)
	if err != nil {
		return fmt.Errorf("failed to initialize decision policies: %w", err)
	}
	go dispatcher.Run(ctx)

	// 6. Hot reload of policy thresholds
	if app.WatchConfig(v, logger, func(updated *app.Config) {
		if err := decision.ApplyThresholds(updated, dispatcher, logger); err != nil {
			logger.Error("failed to apply reloaded thresholds", "error", err)
			return
		}
		logger.Info("thresholds reloaded")
	}) {
		logger.Info("watching configuration file for threshold changes")
	}

	// 7. HTTP API
	gin.SetMode(cfg.Server.Mode)
	router := NewRouter(dispatcher, registry, logger)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router,
	}
	return serve(ctx, srv, cfg.Server, logger)
}

func initializeExecutors(cfg *app.Config, kcfg *app.KubeClients, logger *slog.Logger) ([]decisionDomain.ActionExecutor, error) {
	var executors []decisionDomain.ActionExecutor

	if cfg.Notifier.Enabled {
		services, err := notifier.NewNotifierServices(kcfg.ClientSet, notifier.Config{
			Namespace:      cfg.Kubernetes.Namespace,
			SecretName:     cfg.Notifier.SecretName,
			URLKey:         cfg.Notifier.URLKey,
			WebhookURL:     cfg.Notifier.WebhookURL,
			UserAgent:      cfg.Notifier.UserAgent,
			Timeout:        cfg.Notifier.Timeout,
			MaxElapsedTime: cfg.Notifier.MaxElapsedTime,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize notifier: %w", err)
		}
		executors = append(executors, notifier.NewActionExecutor(services.Notifier))
	}

	if cfg.Events.Enabled {
		recorder := event.NewRecorder(event.Config{
			Object: event.InvolvedObject{
				APIVersion: cfg.Events.APIVersion,
				Kind:       cfg.Events.Kind,
				Resource:   cfg.Events.Resource,
				Namespace:  cfg.Kubernetes.Namespace,
				Name:       cfg.Events.Name,
			},
			Component: cfg.App.Component,
		}, kcfg.ClientSet, kcfg.DynamicClient, logger)
		executors = append(executors, decisionService.NewEventExecutor(recorder))
	}

	names := make([]string, 0, len(executors))
	for _, executor := range executors {
		names = append(names, executor.Name())
	}
	logger.Info("action executors initialized", "executors", names)
	return executors, nil
}

// serve runs srv until ctx is done, then shuts it down gracefully
func serve(ctx context.Context, srv *http.Server, cfg app.ServerConfig, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down HTTP server", "timeout", cfg.ShutdownTimeout.String())
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	return nil
}
