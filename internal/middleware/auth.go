package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"healthtrack-server/internal/models"
	"healthtrack-server/internal/utils"
)

const callerKey = "caller"

// AuthMiddleware creates a middleware for JWT authentication.
// A missing token is 401; a token that does not verify is 403.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Access denied. No token provided.")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(strings.TrimSpace(parts[1]), secret)
		if err != nil {
			utils.Forbidden(c, "Invalid or expired token")
			c.Abort()
			return
		}

		// Set user information in context for downstream handlers
		caller := claims.Caller()
		c.Set(callerKey, caller)
		c.Set("userID", caller.ID)

		c.Next()
	}
}

// RequireProfessionalOrAdmin rejects callers that are not staff.
// It should be used *after* AuthMiddleware.
func RequireProfessionalOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok {
			utils.InternalServerError(c, "caller not found in context, AuthMiddleware might be missing")
			c.Abort()
			return
		}

		if !caller.Role.IsProfessionalOrAdmin() {
			utils.Forbidden(c, "You do not have permission to access this resource.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware for role-based authorization.
// It should be used *after* AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok {
			utils.InternalServerError(c, "caller not found in context, AuthMiddleware might be missing")
			c.Abort()
			return
		}

		for _, allowedRole := range allowedRoles {
			if caller.Role == allowedRole {
				c.Next()
				return
			}
		}

		utils.Forbidden(c, "You do not have permission to access this resource.")
		c.Abort()
	}
}

// GetCaller returns the identity AuthMiddleware stored on the context.
func GetCaller(c *gin.Context) (models.Caller, bool) {
	v, exists := c.Get(callerKey)
	if !exists {
		return models.Caller{}, false
	}
	caller, ok := v.(models.Caller)
	return caller, ok
}
