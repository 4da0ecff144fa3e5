package service

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/chartvault/ChartVaultServer/internal/store"
)

const userContextKey = "currentUser"

// RequireAuth resolves the bearer token and aborts with 401 when it is
// missing or invalid. The resolved user lands in the gin context.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		user, err := h.gate.ResolveToken(c.Request.Context(), token)
		if err != nil {
			logger.Warn("Token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the bearer token when one is present but never
// rejects the request. Anonymous callers simply get no user in the
// context.
func (h *Handler) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := h.gate.ResolveTokenOptional(c.Request.Context(), bearerToken(c)); user != nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

// UploadRateLimit caps song uploads across all callers.
func UploadRateLimit(perMinute int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many uploads, slow down"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func currentUser(c *gin.Context) *store.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*store.User); ok {
			return user
		}
	}
	return nil
}
