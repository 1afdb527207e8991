package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phoneshop/internal/cart"
)

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"min=1"`
}

func GetCart(svc *cart.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/cart"
		defer handlePanic(c, logger, route)

		userID, ok := requireIdentity(c, logger, route)
		if !ok {
			return
		}

		view, err := svc.Get(c.Request.Context(), userID)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusOK, view)
	}
}

func UpsertCartItem(svc *cart.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart"
		defer handlePanic(c, logger, route)

		userID, ok := requireIdentity(c, logger, route)
		if !ok {
			return
		}

		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		productID, err := parseObjectID(req.ProductID, "productId")
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		view, err := svc.Upsert(c.Request.Context(), userID, productID, req.Quantity)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusOK, view)
	}
}

func RemoveCartItem(svc *cart.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart/:productId"
		defer handlePanic(c, logger, route)

		userID, ok := requireIdentity(c, logger, route)
		if !ok {
			return
		}

		productID, err := parseObjectID(c.Param("productId"), "productId")
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		view, err := svc.Remove(c.Request.Context(), userID, productID)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusOK, view)
	}
}
