// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clarashop/clara-backend/internal/config"
	"github.com/clarashop/clara-backend/internal/handlers"
	"github.com/clarashop/clara-backend/internal/middleware"
	"github.com/clarashop/clara-backend/internal/services"
	"github.com/clarashop/clara-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	verifier := services.NewStaticVerifier(cfg.Admin)

	authService := services.NewAuthService(verifier, cfg)
	productService := services.NewProductService(db, storageService)
	orderService := services.NewOrderService(db, cfg.Shop.ShippingCost)
	analyticsService := services.NewAnalyticsService(db, cfg.Shop.ShippingCost)
	trackingService := services.NewTrackingService(cfg.Meta, cfg.Shop.Currency)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	adminHandler := handlers.NewAdminHandler(productService, orderService, analyticsService)
	trackingHandler := handlers.NewTrackingHandler(trackingService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), middleware.AdminRequired(), authHandler.Me)
		}

		// Public storefront routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.GET("/:id", productHandler.GetProduct)
		}

		orders := v1.Group("/orders")
		orders.Use(middleware.OrderRateLimit())
		{
			orders.POST("", orderHandler.CreateOrder)
		}

		events := v1.Group("/events")
		{
			events.POST("", trackingHandler.TrackEvent)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired())
		admin.Use(middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)
			admin.GET("/analytics", adminHandler.GetAnalytics)

			admin.GET("/orders", adminHandler.ListOrders)
			admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)

			admin.POST("/products", middleware.UploadRateLimit(), adminHandler.CreateProduct)
			admin.PUT("/products/:id", middleware.UploadRateLimit(), adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
		}
	}

	return r
}
