package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phoneshop/internal/models"
)

func GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.Categories)
	}
}
