package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StorePinger reports whether the backing store is reachable.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles liveness endpoints.
type HealthHandler struct {
	store     StorePinger
	startedAt time.Time
	version   string
}

// NewHealthHandler creates a new health handler. store may be nil when the
// deployment has no external store to check.
func NewHealthHandler(store StorePinger, version string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		startedAt: time.Now(),
		version:   version,
	}
}

// RegisterRoutes registers health check routes.
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.HealthCheck)
	router.GET("/ping", PingHandler)
	router.GET("/", h.Root)
}

// HealthCheck reports service health including store reachability.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks["store"] = "unreachable"
		} else {
			checks["store"] = "ok"
		}
	}

	body := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"uptime":    time.Since(h.startedAt).String(),
		"version":   h.version,
		"checks":    checks,
	}
	if status != http.StatusOK {
		body["status"] = "unhealthy"
	}

	c.JSON(status, body)
}

// Root identifies the service for anyone poking the base URL.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "volunteer-tracker",
		"version": h.version,
	})
}

// PingHandler provides a simple ping endpoint
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
		"time":    time.Now().Unix(),
	})
}
