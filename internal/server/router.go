package server

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rca-decider/internal/api/v1/handler"
	"rca-decider/internal/api/v1/middleware"
)

// NewRouter wires the HTTP API: health probes, policy endpoints and /metrics
func NewRouter(registry handler.PolicyRegistry, gatherer prometheus.Gatherer, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.LoggingMiddleware(logger))

	handler.NewHealthHandler(func() error {
		if len(registry.Policies()) == 0 {
			return errors.New("no policies registered")
		}
		return nil
	}).SetupRoutes(r)
	handler.NewPolicyHandler(registry, logger).SetupRoutes(r)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return r
}
