package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quitcoach/utils"
)

// getLogger returns the request-scoped logger set by middleware.RequestLogger,
// falling back to the global logger.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}
