package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phoneshop/internal/catalog"
	"phoneshop/internal/models"
)

func GetProducts(svc *catalog.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"
		defer handlePanic(c, logger, route)

		p := queryParser{c: c}
		query := catalog.ListQuery{
			Q:        strings.TrimSpace(c.Query("q")),
			Category: models.Category(strings.TrimSpace(c.Query("category"))),
			MinPrice: p.optionalFloat("minPrice"),
			MaxPrice: p.optionalFloat("maxPrice"),
			Page:     p.positiveInt("page"),
			Limit:    p.positiveInt("limit"),
		}
		if err := p.err(); err != nil {
			respondError(c, logger, route, err)
			return
		}

		result, err := svc.List(c.Request.Context(), query)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func GetProduct(svc *catalog.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:id"
		defer handlePanic(c, logger, route)

		id, err := parseObjectID(c.Param("id"), "id")
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		product, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}
