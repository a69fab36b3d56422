// middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"quitcoach/models"
	"quitcoach/utils"
)

// Context keys set by JWTAuthMiddleware.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
	ContextEmail  = "email"
)

// JWTAuthMiddleware validates the bearer token and stores the caller's ID and
// role in the context. Subjects must be UUIDs; roles must be coach, member or admin.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid Authorization header", nil)
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		identity, err := utils.ExtractIdentity(tokenString)
		if err != nil {
			zap.L().Debug("Rejected bearer token", zap.String("tokenHash", utils.HashToken(tokenString)), zap.Error(err))
			utils.JSONError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", nil)
			return
		}
		if _, err := uuid.Parse(identity.Subject); err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token subject", nil)
			return
		}

		role := models.Role(strings.ToLower(identity.Role))
		switch role {
		case models.RoleCoach, models.RoleMember, models.RoleAdmin:
		default:
			utils.JSONError(c, http.StatusForbidden, "FORBIDDEN", "Unsupported role", nil)
			return
		}

		c.Set(ContextUserID, identity.Subject)
		c.Set(ContextRole, role)
		c.Set(ContextEmail, identity.Email)
		c.Next()
	}
}

// CallerID returns the authenticated user ID, or "" outside JWTAuthMiddleware.
func CallerID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// CallerRole returns the authenticated role, or "" outside JWTAuthMiddleware.
func CallerRole(c *gin.Context) models.Role {
	if v, ok := c.Get(ContextRole); ok {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return ""
}
