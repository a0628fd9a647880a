package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health reports liveness plus the reachability of the backing stores. The
// endpoint stays 200 as long as the process is up; degraded dependencies show
// up in the body so probes can alert without flapping the load balancer.
func (h HandlerSet) Health(c *gin.Context) {
	checks := gin.H{}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		if err := h.db.Ping(ctx); err != nil {
			checks["postgres"] = "unreachable"
		} else {
			checks["postgres"] = "ok"
		}
		cancel()
	}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		if err := h.cache.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unreachable"
		} else {
			checks["redis"] = "ok"
		}
		cancel()
	}

	respond(c, http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC(),
		"checks": checks,
	})
}
