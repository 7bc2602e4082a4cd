package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/discovery/component"
)

// HealthChecker reports the health of every component the service owns.
type HealthChecker func(ctx context.Context) []component.Health

// Overall folds component statuses into one: unhealthy beats degraded,
// degraded beats healthy. No components means healthy.
func Overall(components []component.Health) component.HealthStatus {
	rank := map[component.HealthStatus]int{
		component.StatusHealthy:   0,
		component.StatusDegraded:  1,
		component.StatusUnhealthy: 2,
	}
	worst := component.StatusHealthy
	for _, h := range components {
		if rank[h.Status] > rank[worst] {
			worst = h.Status
		}
	}
	return worst
}

func check(c *gin.Context, checker HealthChecker) []component.Health {
	if checker == nil {
		return nil
	}
	return checker(c.Request.Context())
}

// Health serves the full report. Only an unhealthy service answers 503; a
// degraded one still answers 200.
func Health(service string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		components := check(c, checker)
		status := Overall(components)

		code := http.StatusOK
		if status == component.StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":     status,
			"service":    service,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": components,
		})
	}
}

// Readiness answers 503 while any component is unhealthy, taking the
// instance out of a load balancer until its store is back.
func Readiness(service string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Overall(check(c, checker)) == component.StatusUnhealthy {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "service": service})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": service})
	}
}

// Liveness answers 200 as long as the process serves HTTP at all.
func Liveness(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive", "service": service})
	}
}
