package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ForceRefresh invalida el caché de precios y ejecuta un ciclo completo de actualización
func ForceRefresh(c *gin.Context) {
	if priceUpdater == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "El actualizador no está activo"})
		return
	}

	priceUpdater.ForceRefresh()

	c.JSON(http.StatusOK, gin.H{
		"message":      "Actualización forzada completada",
		"last_updated": priceUpdater.GetLastUpdated().Format("2006-01-02 15:04:05"),
	})
}

// GetCacheStatus obtiene el estado del caché de precios
func GetCacheStatus(c *gin.Context) {
	lastUpdated := time.Time{}
	if priceUpdater != nil {
		lastUpdated = priceUpdater.GetLastUpdated()
	}

	c.JSON(http.StatusOK, gin.H{
		"cache":        priceService.CacheStatus(),
		"last_updated": lastUpdated,
	})
}

// GetPositionAlerts obtiene las últimas alertas de posiciones nuevas
func GetPositionAlerts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	alerts, err := positionRepo.GetRecentAlerts(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener las alertas"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
