package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quitcoach/utils"
)

// HealthHandler reports the last backend health snapshot. It answers 503 when a
// configured backend failed its most recent ping.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	healthy := true
	for _, ok := range []*bool{status.Mongo, status.Redis} {
		if ok != nil && !*ok {
			healthy = false
		}
	}

	code, state := http.StatusOK, "ok"
	if !healthy {
		code, state = http.StatusServiceUnavailable, "degraded"
	}
	c.JSON(code, gin.H{"status": state, "services": status})
}
