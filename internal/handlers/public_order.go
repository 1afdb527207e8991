package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"phoneshop/internal/apperr"
	"phoneshop/internal/middleware"
	"phoneshop/internal/orders"
)

type createOrderItemRequest struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"min=1"`
}

type createOrderCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// createOrderRequest carries no total: it is always computed from the catalog.
type createOrderRequest struct {
	Items         []createOrderItemRequest   `json:"items" binding:"required,min=1,dive"`
	Customer      createOrderCustomerRequest `json:"customer"`
	PaymentMethod string                     `json:"paymentMethod" binding:"required,oneof=COD"`
}

func buildPlaceRequest(req createOrderRequest) (orders.PlaceRequest, error) {
	place := orders.PlaceRequest{
		Items: make([]orders.LineRequest, 0, len(req.Items)),
		Customer: orders.Customer{
			Name:    req.Customer.Name,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
		},
		PaymentMethod: req.PaymentMethod,
	}

	var details []string
	for i, item := range req.Items {
		id, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			details = append(details, fmt.Sprintf("items[%d].product is invalid", i))
			continue
		}
		place.Items = append(place.Items, orders.LineRequest{ProductID: id, Quantity: item.Quantity})
	}
	if len(details) > 0 {
		return orders.PlaceRequest{}, apperr.Validation("validation failed", details...)
	}
	return place, nil
}

func CreateOrder(svc *orders.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, logger, route)

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		place, err := buildPlaceRequest(req)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}
		if identity, ok := middleware.IdentityFrom(c); ok {
			userID := identity.ID
			place.UserID = &userID
		}

		order, err := svc.Place(c.Request.Context(), place)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusCreated, order)
	}
}

func GetMyOrders(svc *orders.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/my"
		defer handlePanic(c, logger, route)

		userID, ok := requireIdentity(c, logger, route)
		if !ok {
			return
		}

		list, err := svc.ListByUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, logger, route, err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}
