package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"rca-decider/internal/common"
	"rca-decider/internal/features/decision/domain"
)

// PolicyRegistry looks up registered decision policies
type PolicyRegistry interface {
	Policy(name string) (domain.Policy, error)
	Policies() []domain.Policy
}

// ThresholdsRequest is the body of a thresholds update
type ThresholdsRequest struct {
	UnhealthyNodePercentage *int `json:"unhealthyNodePercentage" binding:"required"`
	MinUnhealthyMinutes     *int `json:"minUnhealthyMinutes" binding:"required"`
}

// PolicyHandler exposes policy state and runtime threshold updates
type PolicyHandler struct {
	registry PolicyRegistry
	logger   *slog.Logger
}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler(registry PolicyRegistry, logger *slog.Logger) *PolicyHandler {
	if logger == nil {
		logger = common.NopLogger()
	}
	return &PolicyHandler{
		registry: registry,
		logger:   logger,
	}
}

// SetupRoutes registers handler routes to the router
func (h *PolicyHandler) SetupRoutes(r *gin.Engine) {
	api := r.Group("/api/v1/policies")
	{
		api.GET("", h.listPolicies)
		api.GET("/:name", h.getPolicy)
		api.PUT("/:name/thresholds", h.updateThresholds)
	}
}

func (h *PolicyHandler) listPolicies(c *gin.Context) {
	policies := h.registry.Policies()
	statuses := make([]domain.PolicyStatus, 0, len(policies))
	for _, policy := range policies {
		statuses = append(statuses, policy.Status())
	}

	c.JSON(http.StatusOK, gin.H{
		"policies": statuses,
		"count":    len(statuses),
	})
}

func (h *PolicyHandler) getPolicy(c *gin.Context) {
	policy, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, policy.Status())
}

// updateThresholds replaces both thresholds of a policy
func (h *PolicyHandler) updateThresholds(c *gin.Context) {
	policy, ok := h.lookup(c)
	if !ok {
		return
	}

	var req ThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := policy.SetThresholds(*req.UnhealthyNodePercentage, *req.MinUnhealthyMinutes); err != nil {
		status := http.StatusInternalServerError
		if common.IsInvalidInput(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	common.LoggerFromContext(c.Request.Context()).Info("thresholds updated",
		"policy", policy.Name(),
		"unhealthy_node_percentage", *req.UnhealthyNodePercentage,
		"min_unhealthy_minutes", *req.MinUnhealthyMinutes)

	c.JSON(http.StatusOK, policy.Status())
}

func (h *PolicyHandler) lookup(c *gin.Context) (domain.Policy, bool) {
	name := c.Param("name")
	policy, err := h.registry.Policy(name)
	if err == nil {
		return policy, true
	}

	if common.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else {
		h.logger.Error("policy lookup failed", "policy", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
	return nil, false
}
