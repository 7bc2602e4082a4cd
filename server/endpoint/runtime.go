package endpoint

import (
	"net/http"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/kbukum/discovery/version"
)

var started = time.Now()

// Info reports build information and uptime.
func Info(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.Get()
		c.JSON(http.StatusOK, gin.H{
			"service":    service,
			"version":    v.String(),
			"git_commit": v.GitCommit,
			"build_time": v.BuildTime,
			"go_version": v.GoVersion,
			"is_release": v.IsRelease(),
			"uptime":     time.Since(started).Round(time.Second).String(),
		})
	}
}

// Metrics reports goroutine and heap figures in human-readable units.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		c.JSON(http.StatusOK, gin.H{
			"goroutines": runtime.NumGoroutine(),
			"memory": gin.H{
				"alloc":       humanize.IBytes(ms.Alloc),
				"total_alloc": humanize.IBytes(ms.TotalAlloc),
				"sys":         humanize.IBytes(ms.Sys),
				"gc_runs":     ms.NumGC,
			},
		})
	}
}
