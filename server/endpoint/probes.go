// Package endpoint serves the unauthenticated probe and build-info routes.
package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicekit/component"
	"github.com/kbukum/voicekit/version"
)

// HealthChecker returns the health of every registered component.
type HealthChecker func(ctx context.Context) []component.Health

type healthReport struct {
	Status     component.HealthStatus `json:"status"`
	Service    string                 `json:"service"`
	Timestamp  string                 `json:"timestamp"`
	Components []component.Health     `json:"components"`
}

var started = time.Now()

// worst folds component states: unhealthy beats degraded beats healthy.
// It also returns the first unhealthy component's name.
func worst(hs []component.Health) (component.HealthStatus, string) {
	status := component.StatusHealthy
	for _, h := range hs {
		switch h.Status {
		case component.StatusUnhealthy:
			return component.StatusUnhealthy, h.Name
		case component.StatusDegraded:
			status = component.StatusDegraded
		}
	}
	return status, ""
}

func check(ctx context.Context, checker HealthChecker) []component.Health {
	if checker == nil {
		return nil
	}
	return checker(ctx)
}

// Health lists every component. Degraded still answers 200; any
// unhealthy component answers 503.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		hs := check(c.Request.Context(), checker)
		status, _ := worst(hs)
		code := http.StatusOK
		if status == component.StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, healthReport{
			Status:     status,
			Service:    serviceName,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Components: hs,
		})
	}
}

// Readiness answers 503 naming the first unhealthy component.
func Readiness(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if status, name := worst(check(c.Request.Context(), checker)); status == component.StatusUnhealthy {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "component": name})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

// Liveness confirms the process serves HTTP.
func Liveness() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
	}
}

// Info reports the build and uptime.
func Info(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": serviceName,
			"build":   version.Get(),
			"uptime":  time.Since(started).Round(time.Second).String(),
		})
	}
}
