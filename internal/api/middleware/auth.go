package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Auth guards admin routes with a shared API key. An empty configured
// key disables the check, which keeps local development friction-free.
func Auth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		if requestKey(c) != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// requestKey extracts the caller's key, preferring the X-API-Key header
// over a bearer token.
func requestKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}
