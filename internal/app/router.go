package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"freight/internal/handler"
	"freight/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	PaymentHandler  *handler.PaymentHandler
	ShipmentHandler *handler.ShipmentHandler
	ClientHandler   *handler.ClientHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.ActorMiddleware())
	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Payment ledger routes.
		payments := v1.Group("/payments")
		{
			payments.POST("", deps.PaymentHandler.Register)
			payments.GET("", deps.PaymentHandler.List)
			payments.GET("/:id", deps.PaymentHandler.Get)
			payments.POST("/:id/void", deps.PaymentHandler.Void)
		}

		// Shipment routes.
		shipments := v1.Group("/shipments")
		{
			shipments.POST("", deps.ShipmentHandler.Create)
			shipments.GET("", deps.ShipmentHandler.GetAll)
			shipments.GET("/:id", deps.ShipmentHandler.Get)
			shipments.GET("/:id/balance", deps.ShipmentHandler.GetBalance)
			shipments.DELETE("/:id", deps.ShipmentHandler.Delete)
		}

		// Client routes.
		clients := v1.Group("/clients")
		{
			clients.POST("", deps.ClientHandler.Create)
			clients.GET("", deps.ClientHandler.GetAll)
			clients.GET("/:id", deps.ClientHandler.Get)
		}
	}

	return router
}
