package middleware

import (
	"net/http"
	"time"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
	"github.com/gin-gonic/gin"
)

// periodStartDate traduce el periodo del query string a una fecha de inicio
func periodStartDate(period string) time.Time {
	now := time.Now()

	switch period {
	case "day":
		return now.AddDate(0, 0, -1)
	case "week":
		return now.AddDate(0, 0, -7)
	case "month":
		return now.AddDate(0, -1, 0)
	case "year":
		return now.AddDate(-1, 0, 0)
	default: // "all"
		return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
}

// GetVaultDashboard obtiene el payload completo del dashboard: métricas,
// precios, rendimiento y alertas recientes.
// Si el actualizador de fondo tiene un payload reciente, se sirve ese.
func GetVaultDashboard(c *gin.Context) {
	if priceUpdater != nil {
		if payload, exists := priceUpdater.GetCachedPayload(); exists {
			c.JSON(http.StatusOK, payload)
			return
		}
	}

	// Sin actualizador (o antes del primer ciclo): construir el payload directo
	metrics, err := vaultService.GetMetrics()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Métricas del vault no disponibles"})
		return
	}

	prices := make(map[string]models.PriceQuote, len(supportedSymbols))
	for _, symbol := range supportedSymbols {
		prices[symbol] = priceService.GetPrice(symbol)
	}

	c.JSON(http.StatusOK, models.DashboardPayload{
		Metrics:     metrics,
		Prices:      prices,
		LastUpdated: time.Now(),
	})
}

// GetVaultMetrics obtiene las métricas derivadas del vault
func GetVaultMetrics(c *gin.Context) {
	metrics, err := vaultService.GetMetrics()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Métricas del vault no disponibles"})
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// GetVaultPositions obtiene las posiciones abiertas del vault
func GetVaultPositions(c *gin.Context) {
	metrics, err := vaultService.GetMetrics()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Posiciones del vault no disponibles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"positions":    metrics.Positions,
		"last_updated": metrics.LastUpdated,
	})
}

// GetVaultPerformance obtiene el resumen de rendimiento del vault para un periodo
func GetVaultPerformance(c *gin.Context) {
	period := c.DefaultQuery("period", "all")
	startDate := periodStartDate(period)

	performance, err := snapshotRepo.GetPerformance(period, startDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener el rendimiento"})
		return
	}

	c.JSON(http.StatusOK, performance)
}

// GetVaultHistory obtiene el historial diario del valor del vault
func GetVaultHistory(c *gin.Context) {
	period := c.DefaultQuery("period", "all")
	startDate := periodStartDate(period)

	snapshots, err := snapshotRepo.GetSnapshots(startDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener el historial"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshots": snapshots})
}
