package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phoneshop/internal/catalog"
	"phoneshop/internal/models"
	"phoneshop/internal/reporting"
	"phoneshop/internal/upload"
)

func GetAllProducts(svc *reporting.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/products"
		defer handlePanic(c, logger, route)

		p := queryParser{c: c}
		query := reporting.ProductQuery{
			PageQuery: p.pageQuery(),
			Search:    strings.TrimSpace(c.Query("search")),
			Category:  models.Category(strings.TrimSpace(c.Query("category"))),
		}
		if err := p.err(); err != nil {
			respondError(c, logger, route, err)
			return
		}

		page, err := svc.Products(c.Request.Context(), query)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusOK, page)
	}
}

func CreateProduct(svc *catalog.Service, uploads *upload.Storage, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"
		defer handlePanic(c, logger, route)

		input, err := parseProductRequest(c, uploads)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		product, err := svc.Create(c.Request.Context(), input)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}

func UpdateProduct(svc *catalog.Service, uploads *upload.Storage, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/products/:id"
		defer handlePanic(c, logger, route)

		id, err := parseObjectID(c.Param("id"), "id")
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		// Files are only stored for a product that exists.
		if _, err := svc.Get(c.Request.Context(), id); err != nil {
			respondError(c, logger, route, err)
			return
		}

		input, err := parseProductRequest(c, uploads)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		product, err := svc.Update(c.Request.Context(), id, input)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

func DeleteProduct(svc *catalog.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/products/:id"
		defer handlePanic(c, logger, route)

		id, err := parseObjectID(c.Param("id"), "id")
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
