package middleware

import (
	"errors"
	"net/http"
	"strings"

	"storefront/security"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// UserContextKey holds the authenticated user's id in the gin context.
	UserContextKey = "userID"
	// RoleContextKey holds the authenticated user's role.
	RoleContextKey = "role"
	// TokenContextKey holds the raw bearer token, for logout revocation.
	TokenContextKey = "token"
	// TokenExpContextKey holds the token's exp claim as epoch seconds.
	TokenExpContextKey = "tokenExp"
)

// AuthMiddleware validates the bearer token and consults the blacklist
// before any handler runs. Revocation checks fail closed: a revoked or
// unparseable token never reaches a handler.
func AuthMiddleware(tokens *services.TokenService, blacklist *security.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		if blacklist.IsRevoked(tokenStr) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "TOKEN_REVOKED"})
			return
		}

		claims, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		sub, _ := claims["sub"].(string)
		if _, err := uuid.Parse(sub); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		role, _ := claims["role"].(string)
		exp, _ := claims["exp"].(float64)

		c.Set(UserContextKey, sub)
		c.Set(RoleContextKey, role)
		c.Set(TokenContextKey, tokenStr)
		c.Set(TokenExpContextKey, int64(exp))
		c.Next()
	}
}

// RequireRole restricts a route to users carrying the given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, ok := c.Get(RoleContextKey)
		if !ok || userRole != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}

// GetUserID extracts the authenticated user id from the gin context.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	if val, ok := c.Get(UserContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return uuid.Parse(id)
		}
	}
	return uuid.Nil, errors.New("user ID not found in context")
}
