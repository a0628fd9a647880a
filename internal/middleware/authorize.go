package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lumenstudio/api/internal/models"
)

// RequireRoles guards a route group behind specific roles. Must run after
// Auth. A valid token with the wrong role yields 403, not 401.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
			return
		}

		if _, allowed := roleSet[models.UserRole(claims.Role)]; !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "insufficient permissions"})
			return
		}

		c.Next()
	}
}
