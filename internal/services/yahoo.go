package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooClient obtiene precios desde el endpoint de charts de Yahoo Finance.
// Es la fuente secundaria cuando CoinGecko falla.
type YahooClient struct {
	baseURL string
}

func NewYahooClient() *YahooClient {
	return &YahooClient{baseURL: yahooBaseURL}
}

// NewYahooClientWithURL permite apuntar a otro servidor (usado en tests)
func NewYahooClientWithURL(baseURL string) *YahooClient {
	return &YahooClient{baseURL: baseURL}
}

// yahooTickers mapea los símbolos del dashboard a los tickers de Yahoo
var yahooTickers = map[string]string{
	"ETH": "ETH-USD",
	"BTC": "BTC-USD",
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (c *YahooClient) fetchChart(symbol, rng, interval string) (*yahooChartResponse, error) {
	ticker, exists := yahooTickers[symbol]
	if !exists {
		return nil, fmt.Errorf("símbolo no soportado: %s", symbol)
	}

	requestURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		c.baseURL, ticker, rng, interval)

	resp, err := httpClient.Get(requestURL)
	if err != nil {
		log.Printf("Error al consultar Yahoo Finance para %s: %v", symbol, err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Yahoo Finance respondió con estado %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result yahooChartResponse
	if err := json.Unmarshal(body, &result); err != nil {
		log.Printf("Error al parsear JSON de Yahoo para %s: %v", symbol, err)
		return nil, err
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("error de Yahoo Finance: %s", result.Chart.Error.Description)
	}

	if len(result.Chart.Result) == 0 {
		return nil, fmt.Errorf("Yahoo Finance no devolvió resultados para %s", symbol)
	}

	return &result, nil
}

// GetPrice obtiene el precio actual de un activo desde el chart diario.
// La variación de 24h se deriva del cierre previo reportado por el chart.
func (c *YahooClient) GetPrice(symbol string) (models.PriceQuote, error) {
	result, err := c.fetchChart(symbol, "1d", "5m")
	if err != nil {
		return models.PriceQuote{}, err
	}

	meta := result.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return models.PriceQuote{}, fmt.Errorf("Yahoo Finance devolvió precio inválido para %s", symbol)
	}

	changePercent := 0.0
	if meta.ChartPreviousClose > 0 {
		changePercent = (meta.RegularMarketPrice - meta.ChartPreviousClose) / meta.ChartPreviousClose * 100
	}

	return models.PriceQuote{
		Symbol:             symbol,
		Current:            meta.RegularMarketPrice,
		DailyChangePercent: changePercent,
		Timestamp:          time.Now(),
		Source:             "yahoo",
	}, nil
}

// GetHistory obtiene la serie histórica de un activo para un rango de Yahoo (1d, 7d, 1mo, 1y)
func (c *YahooClient) GetHistory(symbol, rng, interval string) (*models.PriceHistory, error) {
	result, err := c.fetchChart(symbol, rng, interval)
	if err != nil {
		return nil, err
	}

	chart := result.Chart.Result[0]
	if len(chart.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("Yahoo Finance no devolvió cotizaciones para %s", symbol)
	}

	closes := chart.Indicators.Quote[0].Close
	history := &models.PriceHistory{
		Symbol:   symbol,
		Currency: "USD",
		Source:   "yahoo",
		Points:   make([]models.PricePoint, 0, len(chart.Timestamp)),
	}

	for i, ts := range chart.Timestamp {
		// Yahoo devuelve null en los huecos de la serie
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		history.Points = append(history.Points, models.PricePoint{
			Timestamp: time.Unix(ts, 0),
			Price:     *closes[i],
		})
	}

	if len(history.Points) == 0 {
		return nil, fmt.Errorf("Yahoo Finance devolvió una serie vacía para %s", symbol)
	}

	return history, nil
}
