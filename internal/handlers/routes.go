package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phoneshop/internal/auth"
	"phoneshop/internal/cart"
	"phoneshop/internal/catalog"
	"phoneshop/internal/middleware"
	"phoneshop/internal/orders"
	"phoneshop/internal/reporting"
	"phoneshop/internal/upload"
)

// Deps holds the services the HTTP layer delegates to.
type Deps struct {
	Auth      *auth.Service
	Tokens    *auth.Tokens
	Catalog   *catalog.Service
	Cart      *cart.Service
	Orders    *orders.Service
	Reporting *reporting.Service
	Uploads   *upload.Storage
	Logger    *zap.Logger
}

// RegisterRoutes mounts the API under /api and the uploaded images under /uploads.
func RegisterRoutes(r *gin.Engine, d Deps) {
	log := d.Logger
	authenticated := middleware.AuthGuard(d.Tokens, log)
	admin := middleware.AdminAuth(d.Tokens, log)

	uploads := r.Group("/uploads", crossOriginResource())
	uploads.StaticFS("/", gin.Dir(d.Uploads.Dir(), false))

	api := r.Group("/api")
	api.GET("/health", Health())

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", Register(d.Auth, log))
		authGroup.POST("/login", Login(d.Auth, log))
		authGroup.GET("/me", authenticated, GetMe(d.Auth, log))
	}

	api.GET("/categories", GetCategories())

	products := api.Group("/products")
	{
		products.GET("", GetProducts(d.Catalog, log))
		products.GET("/:id", GetProduct(d.Catalog, log))
		products.POST("", admin, CreateProduct(d.Catalog, d.Uploads, log))
		products.PUT("/:id", admin, UpdateProduct(d.Catalog, d.Uploads, log))
		products.DELETE("/:id", admin, DeleteProduct(d.Catalog, log))
	}

	cartGroup := api.Group("/cart", authenticated)
	{
		cartGroup.GET("", GetCart(d.Cart, log))
		cartGroup.POST("", UpsertCartItem(d.Cart, log))
		cartGroup.DELETE("/:productId", RemoveCartItem(d.Cart, log))
	}

	ordersGroup := api.Group("/orders")
	{
		ordersGroup.POST("", middleware.OptionalAuth(d.Tokens, log), CreateOrder(d.Orders, log))
		ordersGroup.GET("", admin, GetOrders(d.Orders, log))
		ordersGroup.GET("/my", authenticated, GetMyOrders(d.Orders, log))
		ordersGroup.GET("/:id", admin, GetOrder(d.Orders, log))
		ordersGroup.PUT("/:id/status", admin, UpdateOrderStatus(d.Orders, log))
	}

	adminGroup := api.Group("/admin", admin)
	{
		adminGroup.GET("/dashboard", GetDashboard(d.Reporting, log))

		adminGroup.GET("/products", GetAllProducts(d.Reporting, log))
		adminGroup.POST("/products", CreateProduct(d.Catalog, d.Uploads, log))
		adminGroup.PUT("/products/:id", UpdateProduct(d.Catalog, d.Uploads, log))
		adminGroup.DELETE("/products/:id", DeleteProduct(d.Catalog, log))

		adminGroup.GET("/orders", GetAllOrders(d.Reporting, log))
		adminGroup.PUT("/orders/:id/status", UpdateOrderStatus(d.Orders, log))

		adminGroup.GET("/customers", GetCustomers(d.Reporting, log))
		adminGroup.GET("/customers/:id", GetCustomer(d.Reporting, log))
	}
}

// crossOriginResource lets any origin embed uploaded images.
func crossOriginResource() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Cross-Origin-Resource-Policy", "cross-origin")
		c.Next()
	}
}
