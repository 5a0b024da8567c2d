package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
)

// Cliente HTTP compartido con timeout acotado para todas las fuentes externas
var httpClient = &http.Client{Timeout: 8 * time.Second}

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoClient obtiene precios y series históricas desde CoinGecko
type CoinGeckoClient struct {
	baseURL string
}

func NewCoinGeckoClient() *CoinGeckoClient {
	return &CoinGeckoClient{baseURL: coingeckoBaseURL}
}

// NewCoinGeckoClientWithURL permite apuntar a otro servidor (usado en tests)
func NewCoinGeckoClientWithURL(baseURL string) *CoinGeckoClient {
	return &CoinGeckoClient{baseURL: baseURL}
}

// coinGeckoIDs mapea los símbolos del dashboard a los IDs de CoinGecko
var coinGeckoIDs = map[string]string{
	"ETH": "ethereum",
	"BTC": "bitcoin",
}

// GetPrice obtiene el precio actual y la variación de 24h de un activo
func (c *CoinGeckoClient) GetPrice(symbol string) (models.PriceQuote, error) {
	id, exists := coinGeckoIDs[symbol]
	if !exists {
		return models.PriceQuote{}, fmt.Errorf("símbolo no soportado: %s", symbol)
	}

	// Construir la URL de la API
	requestURL := fmt.Sprintf(
		"%s/simple/price?ids=%s&vs_currencies=usd&include_24hr_change=true",
		c.baseURL, id,
	)

	resp, err := httpClient.Get(requestURL)
	if err != nil {
		log.Printf("Error al obtener precio de %s desde CoinGecko: %v", symbol, err)
		return models.PriceQuote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.PriceQuote{}, fmt.Errorf("CoinGecko respondió con estado %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.PriceQuote{}, err
	}

	// Parsear la respuesta JSON
	var result map[string]map[string]float64
	if err := json.Unmarshal(body, &result); err != nil {
		log.Printf("Error al parsear JSON de CoinGecko para %s: %v", symbol, err)
		return models.PriceQuote{}, err
	}

	data, exists := result[id]
	if !exists {
		return models.PriceQuote{}, fmt.Errorf("no se encontraron datos para %s", symbol)
	}

	price, exists := data["usd"]
	if !exists {
		return models.PriceQuote{}, fmt.Errorf("respuesta de CoinGecko sin precio para %s", symbol)
	}

	return models.PriceQuote{
		Symbol:             symbol,
		Current:            price,
		DailyChangePercent: data["usd_24h_change"],
		Timestamp:          time.Now(),
		Source:             "coingecko",
	}, nil
}

// GetMarketChart obtiene la serie histórica de precios de un activo.
// days acepta los valores que entiende la API (1, 7, 30, 365).
func (c *CoinGeckoClient) GetMarketChart(symbol string, days int) (*models.PriceHistory, error) {
	id, exists := coinGeckoIDs[symbol]
	if !exists {
		return nil, fmt.Errorf("símbolo no soportado: %s", symbol)
	}

	requestURL := fmt.Sprintf(
		"%s/coins/%s/market_chart?vs_currency=usd&days=%d",
		c.baseURL, url.PathEscape(id), days,
	)

	resp, err := httpClient.Get(requestURL)
	if err != nil {
		log.Printf("Error al obtener historial de %s desde CoinGecko: %v", symbol, err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CoinGecko respondió con estado %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// La API devuelve pares [timestamp_ms, precio]
	var result struct {
		Prices [][]float64 `json:"prices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	if len(result.Prices) == 0 {
		return nil, fmt.Errorf("CoinGecko no devolvió puntos para %s", symbol)
	}

	history := &models.PriceHistory{
		Symbol:   symbol,
		Currency: "USD",
		Source:   "coingecko",
		Points:   make([]models.PricePoint, 0, len(result.Prices)),
	}

	for _, pair := range result.Prices {
		if len(pair) < 2 {
			continue
		}
		history.Points = append(history.Points, models.PricePoint{
			Timestamp: time.UnixMilli(int64(pair[0])),
			Price:     pair[1],
		})
	}

	return history, nil
}
