package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phoneshop/internal/auth"
	"phoneshop/internal/models"
)

const identityKey = "identity"

// AuthGuard requires a valid bearer token and, when roles are given, one of them.
func AuthGuard(tokens *auth.Tokens, logger *zap.Logger, allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			logger.Debug("auth rejected", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		identity, err := tokens.Verify(raw)
		if err != nil {
			logger.Debug("token validation failed", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if len(allowedRoles) > 0 {
			match := false
			for _, r := range allowedRoles {
				if identity.Role == r {
					match = true
					break
				}
			}
			if !match {
				logger.Info("forbidden", zap.String("path", c.FullPath()), zap.String("role", string(identity.Role)))
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
				return
			}
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func AdminAuth(tokens *auth.Tokens, logger *zap.Logger) gin.HandlerFunc {
	return AuthGuard(tokens, logger, models.RoleAdmin)
}

// IdentityFrom returns the caller set by AuthGuard or OptionalAuth.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok
}
