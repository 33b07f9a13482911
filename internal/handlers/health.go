package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports process liveness. It deliberately does not probe the
// backing stores: the limiter keeps serving verdicts (via fallback or fail
// policy) even when they are down, so store health is not process health.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
