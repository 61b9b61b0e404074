package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/phillip/hoa-backoffice-go/auth"
	"github.com/phillip/hoa-backoffice-go/config"
)

const userContextKey = "user_context"

// AuthMiddleware verifies the bearer token and stashes an explicit
// auth.UserContext for handlers to pick up.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := auth.ParseToken(cfg.JWTSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userContextKey, auth.UserContext{
			UID:         claims.UID,
			DisplayName: claims.Name,
			PhotoURL:    claims.PhotoURL,
			IsAdmin:     claims.Admin,
		})
		c.Next()
	}
}

// RequireAdmin rejects non-admin callers. Must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the caller identity set by AuthMiddleware.
func CurrentUser(c *gin.Context) auth.UserContext {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(auth.UserContext); ok {
			return user
		}
	}
	return auth.UserContext{}
}
