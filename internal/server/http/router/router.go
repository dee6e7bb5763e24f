package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/loyaltyhub/rewardmart/internal/server/http/handlers"
	"github.com/loyaltyhub/rewardmart/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.RewardFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	policyHandler := handlers.NewPolicyHandler(facade)
	customerHandler := handlers.NewCustomerHandler(facade)
	purchaseHandler := handlers.NewPurchaseHandler(facade)
	balanceHandler := handlers.NewBalanceHandler(facade)

	api := engine.Group("/api")

	merchants := api.Group("/merchants/:merchantID")
	merchants.PUT("/policy", policyHandler.Upsert)
	merchants.GET("/policy", policyHandler.Get)
	merchants.DELETE("/policy", policyHandler.Delete)
	merchants.POST("/policy/categories", policyHandler.UpsertCategory)
	merchants.POST("/policy/thresholds", policyHandler.UpsertThreshold)
	merchants.GET("/policy/summary", policyHandler.Summary)
	merchants.GET("/expiring-points", policyHandler.ExpiringPoints)
	merchants.GET("/customers", customerHandler.List)

	api.POST("/customers", customerHandler.Create)
	api.POST("/purchases", purchaseHandler.Record)

	customers := api.Group("/customers/:customerID")
	customers.POST("/spin", purchaseHandler.Spin)
	customers.GET("/balance", balanceHandler.Balance)
	customers.GET("/transactions", balanceHandler.History)

	return engine
}
