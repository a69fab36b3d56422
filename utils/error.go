package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIResponse is the envelope every /api endpoint answers with.
type APIResponse struct {
	Status    int         `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Error     interface{} `json:"error"`
	ErrorCode string      `json:"errorCode"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, APIResponse{
					Status:    http.StatusInternalServerError,
					Message:   "An unexpected error occurred. Please try again later.",
					Error:     gin.H{},
					ErrorCode: "INTERNAL_ERROR",
					Timestamp: time.Now().UTC(),
				})
			}
		}()
		c.Next()
	}
}

// JSONSuccess sends a standardized success envelope.
func JSONSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, APIResponse{
		Status:    status,
		Message:   message,
		Data:      data,
		Error:     gin.H{},
		Timestamp: time.Now().UTC(),
	})
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, code, message string, details interface{}) {
	if details == nil {
		details = gin.H{}
	}
	c.AbortWithStatusJSON(status, APIResponse{
		Status:    status,
		Message:   message,
		Error:     details,
		ErrorCode: code,
		Timestamp: time.Now().UTC(),
	})
}
