package middleware

import (
	"net/http"
	"strings"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
	"github.com/gin-gonic/gin"
)

// Los activos que expone el dashboard
var supportedSymbols = []string{"ETH", "BTC"}

func isSupportedSymbol(symbol string) bool {
	for _, s := range supportedSymbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// GetPrices obtiene los precios actuales de todos los activos soportados
func GetPrices(c *gin.Context) {
	prices := make(map[string]models.PriceQuote, len(supportedSymbols))
	for _, symbol := range supportedSymbols {
		prices[symbol] = priceService.GetPrice(symbol)
	}

	c.JSON(http.StatusOK, gin.H{"prices": prices})
}

// GetPrice obtiene el precio actual de un activo
func GetPrice(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	if !isSupportedSymbol(symbol) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activo no soportado"})
		return
	}

	c.JSON(http.StatusOK, priceService.GetPrice(symbol))
}

// GetPriceHistory obtiene la serie histórica de precios de un activo.
// El periodo se indica con ?period=day|week|month|year
func GetPriceHistory(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	if !isSupportedSymbol(symbol) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activo no soportado"})
		return
	}

	period := c.DefaultQuery("period", "day")

	history, err := historyService.GetHistory(symbol, period)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Historial no disponible"})
		return
	}

	c.JSON(http.StatusOK, history)
}
