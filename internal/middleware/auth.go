// Package middleware contains the gin middleware chain: authentication,
// request logging, and metrics.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Pram0n0/Travelog/internal/auth"
)

const (
	// UsernameKey is the gin context key holding the authenticated
	// username.
	UsernameKey = "username"
	// UserIDKey is the gin context key holding the authenticated user ID.
	UserIDKey = "user_id"
)

// GetUsername extracts the authenticated username from the context.
// Returns empty string if not set.
func GetUsername(c *gin.Context) string {
	username, _ := c.Get(UsernameKey)
	s, _ := username.(string)
	return s
}

// RequireAuth validates the Bearer token and stores the acting username
// in the request context. Requests without a valid token are rejected
// before reaching any handler.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(UsernameKey, claims.Username)
		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}
