package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lumenstudio/api/internal/security"
	"lumenstudio/api/internal/service"
)

const (
	ContextClaims = "access_claims"
	ContextUserID = "user_id"
	ContextRole   = "user_role"
)

// Auth requires a valid bearer access token and stashes its claims in the
// request context. Tokens are stateless: there is no session lookup, expiry
// is the only revocation.
func Auth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := auth.VerifyAccess(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid or expired token"})
			return
		}

		c.Set(ContextClaims, *claims)
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// ClaimsFrom returns the access claims set by Auth.
func ClaimsFrom(c *gin.Context) (security.Claims, bool) {
	val, ok := c.Get(ContextClaims)
	if !ok {
		return security.Claims{}, false
	}
	claims, ok := val.(security.Claims)
	return claims, ok
}
