package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phoneshop/internal/auth"
)

func GetMe(svc *auth.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/auth/me"
		defer handlePanic(c, logger, route)

		userID, ok := requireIdentity(c, logger, route)
		if !ok {
			return
		}

		user, err := svc.Me(c.Request.Context(), userID)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusOK, user)
	}
}
