package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phoneshop/internal/auth"
)

var (
	errMissingToken = errors.New("missing token")
	errTokenFormat  = errors.New("invalid token format")
)

func bearerToken(header string) (string, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return "", errMissingToken
	}
	parts := strings.Fields(raw)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errTokenFormat
	}
	return parts[1], nil
}

// OptionalAuth attaches the caller when a bearer token is sent. Requests
// without a token pass through anonymously; a token that does not verify is
// rejected with 401.
func OptionalAuth(tokens *auth.Tokens, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c.GetHeader("Authorization"))
		if errors.Is(err, errMissingToken) {
			c.Next()
			return
		}
		if err != nil {
			logger.Debug("optional auth rejected", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		identity, err := tokens.Verify(raw)
		if err != nil {
			logger.Debug("token validation failed", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}
