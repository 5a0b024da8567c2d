package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
)

const historyCacheTTL = 5 * time.Minute

// Parámetros por periodo para cada fuente de historial
type historyPeriod struct {
	CoinGeckoDays int
	YahooRange    string
	YahooInterval string
}

var historyPeriods = map[string]historyPeriod{
	"day":   {CoinGeckoDays: 1, YahooRange: "1d", YahooInterval: "5m"},
	"week":  {CoinGeckoDays: 7, YahooRange: "7d", YahooInterval: "1h"},
	"month": {CoinGeckoDays: 30, YahooRange: "1mo", YahooInterval: "1d"},
	"year":  {CoinGeckoDays: 365, YahooRange: "1y", YahooInterval: "1d"},
}

type cachedHistory struct {
	History   *models.PriceHistory
	Timestamp time.Time
}

// HistoryService sirve las series históricas de precios con un caché corto.
// CoinGecko es la fuente primaria y Yahoo Finance el fallback.
type HistoryService struct {
	coingecko *CoinGeckoClient
	yahoo     *YahooClient

	mutex sync.Mutex
	cache map[string]cachedHistory
}

func NewHistoryService(coingecko *CoinGeckoClient, yahoo *YahooClient) *HistoryService {
	return &HistoryService{
		coingecko: coingecko,
		yahoo:     yahoo,
		cache:     make(map[string]cachedHistory),
	}
}

// GetHistory obtiene la serie histórica de un activo para un periodo
// (day, week, month, year)
func (s *HistoryService) GetHistory(symbol, period string) (*models.PriceHistory, error) {
	params, exists := historyPeriods[period]
	if !exists {
		return nil, fmt.Errorf("periodo no soportado: %s", period)
	}

	cacheKey := symbol + ":" + period

	s.mutex.Lock()
	if cached, exists := s.cache[cacheKey]; exists {
		if time.Since(cached.Timestamp) < historyCacheTTL {
			s.mutex.Unlock()
			return cached.History, nil
		}
	}
	s.mutex.Unlock()

	// Fuente primaria: CoinGecko
	history, err := s.coingecko.GetMarketChart(symbol, params.CoinGeckoDays)
	if err != nil {
		log.Printf("CoinGecko falló para historial de %s (%s), intentando Yahoo: %v", symbol, period, err)

		// Fallback: Yahoo Finance
		history, err = s.yahoo.GetHistory(symbol, params.YahooRange, params.YahooInterval)
		if err != nil {
			// Si ambas fuentes fallan, devolver el caché vencido si existe
			s.mutex.Lock()
			defer s.mutex.Unlock()
			if cached, exists := s.cache[cacheKey]; exists {
				log.Printf("Ambas fuentes de historial fallaron para %s, devolviendo caché vencido", symbol)
				return cached.History, nil
			}
			return nil, fmt.Errorf("no se pudo obtener el historial de %s: %v", symbol, err)
		}
	}

	history.Period = period

	s.mutex.Lock()
	s.cache[cacheKey] = cachedHistory{History: history, Timestamp: time.Now()}
	s.mutex.Unlock()

	return history, nil
}
