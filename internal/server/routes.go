package routes

import (
	"net/http"
	"time"

	"github.com/VaultoHoldings/vaulto-api.git/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Precios
	router.GET("/prices", middleware.GetPrices)
	router.GET("/prices/:symbol", middleware.GetPrice)
	router.GET("/prices/:symbol/history", middleware.GetPriceHistory)

	// Vault
	router.GET("/vault", middleware.GetVaultDashboard)
	router.GET("/vault/metrics", middleware.GetVaultMetrics)
	router.GET("/vault/positions", middleware.GetVaultPositions)
	router.GET("/vault/performance", middleware.GetVaultPerformance)
	router.GET("/vault/history", middleware.GetVaultHistory)

	// Formulario de contacto
	router.POST("/contact", middleware.SubmitContact)

	// Rutas de admin
	admin := router.Group("/admin")
	admin.Use(middleware.AdminAuth())
	{
		admin.POST("/refresh", middleware.ForceRefresh)
		admin.GET("/cache", middleware.GetCacheStatus)
		admin.GET("/alerts", middleware.GetPositionAlerts)
	}
}
