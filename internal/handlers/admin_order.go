package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phoneshop/internal/models"
	"phoneshop/internal/orders"
	"phoneshop/internal/reporting"
)

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func GetOrders(svc *orders.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"
		defer handlePanic(c, logger, route)

		list, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

func GetOrder(svc *orders.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"
		defer handlePanic(c, logger, route)

		id, err := parseObjectID(c.Param("id"), "id")
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		order, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

func UpdateOrderStatus(svc *orders.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/status"
		defer handlePanic(c, logger, route)

		id, err := parseObjectID(c.Param("id"), "id")
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		order, err := svc.UpdateStatus(c.Request.Context(), id, models.OrderStatus(strings.TrimSpace(req.Status)))
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

func GetAllOrders(svc *reporting.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/orders"
		defer handlePanic(c, logger, route)

		p := queryParser{c: c}
		query := reporting.OrderQuery{
			PageQuery: p.pageQuery(),
			Status:    models.OrderStatus(strings.TrimSpace(c.Query("status"))),
			Search:    strings.TrimSpace(c.Query("search")),
		}
		if err := p.err(); err != nil {
			respondError(c, logger, route, err)
			return
		}

		page, err := svc.Orders(c.Request.Context(), query)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusOK, page)
	}
}
