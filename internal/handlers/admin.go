package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phoneshop/internal/reporting"
)

func GetDashboard(svc *reporting.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/dashboard"
		defer handlePanic(c, logger, route)

		dash, err := svc.Dashboard(c.Request.Context())
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusOK, dash)
	}
}

func GetCustomers(svc *reporting.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/customers"
		defer handlePanic(c, logger, route)

		p := queryParser{c: c}
		query := reporting.CustomerQuery{
			PageQuery: p.pageQuery(),
			Search:    strings.TrimSpace(c.Query("search")),
		}
		if err := p.err(); err != nil {
			respondError(c, logger, route, err)
			return
		}

		page, err := svc.Customers(c.Request.Context(), query)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusOK, page)
	}
}

func GetCustomer(svc *reporting.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/customers/:id"
		defer handlePanic(c, logger, route)

		id, err := parseObjectID(c.Param("id"), "id")
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		detail, err := svc.Customer(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusOK, detail)
	}
}
