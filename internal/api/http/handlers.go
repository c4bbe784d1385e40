package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/animekun/chatd/internal/infrastructure/config"
	"github.com/animekun/chatd/internal/infrastructure/logging"
	"github.com/animekun/chatd/internal/infrastructure/monitoring"
	"github.com/animekun/chatd/internal/orchestrator"
	"github.com/animekun/chatd/internal/ratelimit"
	"github.com/animekun/chatd/internal/tools"
)

// Version is stamped at build time.
var Version = "dev"

// Pinger reports backend reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers carries the dependencies of the HTTP surface. Orch is nil
// when no model credential is configured; the chat endpoint reports
// that instead of failing deeper in the stack.
type Handlers struct {
	cfg      *config.Config
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	registry *tools.Registry
	limiter  *ratelimit.Limiter
	orch     *orchestrator.Orchestrator
	backend  Pinger
}

// NewHandlers creates the handler set. backend may be nil.
func NewHandlers(cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics, registry *tools.Registry, limiter *ratelimit.Limiter, orch *orchestrator.Orchestrator, backend Pinger) *Handlers {
	return &Handlers{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		registry: registry,
		limiter:  limiter,
		orch:     orch,
		backend:  backend,
	}
}

// Root returns the service banner.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "animekun-chatd",
		"version": Version,
		"model":   h.cfg.Model.Name,
		"endpoints": gin.H{
			"chat":    "/api/chat",
			"tools":   "/tools",
			"health":  "/health",
			"metrics": "/metrics",
		},
	})
}

// Health reports readiness detail.
func (h *Handlers) Health(c *gin.Context) {
	limiterMode := "disabled"
	if h.limiter.Enabled() {
		limiterMode = "fixed-window"
	}

	backendUp := false
	if h.backend != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		backendUp = h.backend.Ping(ctx) == nil
	}

	stats := h.registry.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"model_configured":  h.orch != nil,
		"backend_reachable": backendUp,
		"rate_limiter":      limiterMode,
		"tools":             stats["total_tools"],
		"providers":         stats["total_providers"],
	})
}

// Tools lists the registered tool catalog.
func (h *Handlers) Tools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(),
		"stats":    h.registry.Stats(),
	})
}
