package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quitcoach/models"
)

// RequireRole lets the request through only when the caller has one of roles.
// It must run after JWTAuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CallerRole(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"status":    http.StatusForbidden,
			"message":   "You do not have permission to perform this action",
			"error":     gin.H{},
			"errorCode": "FORBIDDEN",
		})
	}
}
