package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vetcollars/storefront/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc adapts a plain function to Pinger
type PingerFunc func(ctx context.Context) error

// PingContext calls f(ctx)
func (f PingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthStatus is the health endpoint body
type HealthStatus struct {
	Status   string            `json:"status"`
	Version  string            `json:"version,omitempty"`
	Checks   map[string]string `json:"checks"`
	Duration string            `json:"duration"`
}

// SystemHandler serves liveness and readiness probes
type SystemHandler struct {
	version string
	checks  map[string]Pinger
}

// NewSystemHandler creates a new system handler. Each named pinger is probed
// by the readiness endpoint.
func NewSystemHandler(version string, checks map[string]Pinger) *SystemHandler {
	return &SystemHandler{version: version, checks: checks}
}

// Live godoc
// @Summary      Liveness probe
// @Tags         system
// @Success      200 {object} HealthStatus
// @Router       /health/live [get]
func (h *SystemHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthStatus{Status: "ok", Version: h.version, Checks: map[string]string{}})
}

// Ready godoc
// @Summary      Readiness probe
// @Tags         system
// @Success      200 {object} HealthStatus
// @Failure      503 {object} HealthStatus
// @Router       /health [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := HealthStatus{Status: "ok", Version: h.version, Checks: make(map[string]string, len(h.checks))}
	code := http.StatusOK
	for name, p := range h.checks {
		if err := p.PingContext(ctx); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.String("check", name), zap.Error(err))
			status.Checks[name] = "down"
			status.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		status.Checks[name] = "up"
	}
	status.Duration = time.Since(start).String()
	c.JSON(code, status)
}
