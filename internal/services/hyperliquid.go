package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
)

const hyperliquidBaseURL = "https://api.hyperliquid.xyz"

// HyperliquidClient consulta el endpoint /info de Hyperliquid.
// Todos los números llegan como strings en el JSON de la API.
type HyperliquidClient struct {
	baseURL string
}

func NewHyperliquidClient() *HyperliquidClient {
	return &HyperliquidClient{baseURL: hyperliquidBaseURL}
}

// NewHyperliquidClientWithURL permite apuntar a otro servidor (usado en tests)
func NewHyperliquidClientWithURL(baseURL string) *HyperliquidClient {
	return &HyperliquidClient{baseURL: baseURL}
}

func (c *HyperliquidClient) postInfo(request interface{}, target interface{}) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return err
	}

	resp, err := httpClient.Post(c.baseURL+"/info", "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Hyperliquid respondió con estado %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	return json.Unmarshal(body, target)
}

// parseFloat convierte los números-string de Hyperliquid a float64
func parseFloat(value string) float64 {
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

type clearinghouseResponse struct {
	MarginSummary struct {
		AccountValue    string `json:"accountValue"`
		TotalNtlPos     string `json:"totalNtlPos"`
		TotalMarginUsed string `json:"totalMarginUsed"`
	} `json:"marginSummary"`
	AssetPositions []struct {
		Position struct {
			Coin          string `json:"coin"`
			Szi           string `json:"szi"`
			EntryPx       string `json:"entryPx"`
			PositionValue string `json:"positionValue"`
			UnrealizedPnl string `json:"unrealizedPnl"`
			Leverage      struct {
				Type  string  `json:"type"`
				Value float64 `json:"value"`
			} `json:"leverage"`
			LiquidationPx  string `json:"liquidationPx"`
			MarginUsed     string `json:"marginUsed"`
			ReturnOnEquity string `json:"returnOnEquity"`
		} `json:"position"`
	} `json:"assetPositions"`
	Time int64 `json:"time"`
}

// GetVaultState obtiene el estado del vault (valor de cuenta, margen y posiciones abiertas)
func (c *HyperliquidClient) GetVaultState(address string) (*models.VaultState, error) {
	if address == "" {
		return nil, fmt.Errorf("no se configuró la dirección del vault")
	}

	request := map[string]string{
		"type": "clearinghouseState",
		"user": address,
	}

	var result clearinghouseResponse
	if err := c.postInfo(request, &result); err != nil {
		log.Printf("Error al obtener estado del vault desde Hyperliquid: %v", err)
		return nil, err
	}

	state := &models.VaultState{
		AccountValue:    parseFloat(result.MarginSummary.AccountValue),
		TotalNotional:   parseFloat(result.MarginSummary.TotalNtlPos),
		TotalMarginUsed: parseFloat(result.MarginSummary.TotalMarginUsed),
		Timestamp:       time.Now(),
	}

	if result.Time > 0 {
		state.Timestamp = time.UnixMilli(result.Time)
	}

	for _, ap := range result.AssetPositions {
		pos := ap.Position
		size := parseFloat(pos.Szi)
		if size == 0 {
			continue // Ignorar posiciones cerradas
		}

		state.Positions = append(state.Positions, models.VaultPosition{
			Coin:             pos.Coin,
			Size:             size,
			EntryPrice:       parseFloat(pos.EntryPx),
			PositionValue:    parseFloat(pos.PositionValue),
			UnrealizedPnl:    parseFloat(pos.UnrealizedPnl),
			Leverage:         pos.Leverage.Value,
			LiquidationPrice: parseFloat(pos.LiquidationPx),
			MarginUsed:       parseFloat(pos.MarginUsed),
			ReturnOnEquity:   parseFloat(pos.ReturnOnEquity),
		})
	}

	return state, nil
}

// GetAllMids obtiene los precios mid de todos los mercados
func (c *HyperliquidClient) GetAllMids() (map[string]float64, error) {
	request := map[string]string{"type": "allMids"}

	var result map[string]string
	if err := c.postInfo(request, &result); err != nil {
		log.Printf("Error al obtener mids desde Hyperliquid: %v", err)
		return nil, err
	}

	mids := make(map[string]float64, len(result))
	for coin, priceStr := range result {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			continue
		}
		mids[coin] = price
	}

	if len(mids) == 0 {
		return nil, fmt.Errorf("Hyperliquid no devolvió mids")
	}

	return mids, nil
}

type candle struct {
	Time  int64  `json:"t"`
	Open  string `json:"o"`
	Close string `json:"c"`
	High  string `json:"h"`
	Low   string `json:"l"`
}

// GetPrice obtiene un precio desde Hyperliquid combinando el mid actual
// con la vela diaria para derivar la variación de 24h.
// Es la fuente terciaria de la cadena de fallback.
func (c *HyperliquidClient) GetPrice(symbol string) (models.PriceQuote, error) {
	mids, err := c.GetAllMids()
	if err != nil {
		return models.PriceQuote{}, err
	}

	price, exists := mids[symbol]
	if !exists {
		return models.PriceQuote{}, fmt.Errorf("Hyperliquid no tiene mid para %s", symbol)
	}

	quote := models.PriceQuote{
		Symbol:    symbol,
		Current:   price,
		Timestamp: time.Now(),
		Source:    "hyperliquid",
	}

	// La variación de 24h sale de la apertura de la vela diaria;
	// si la vela falla se devuelve el precio con variación cero.
	request := map[string]interface{}{
		"type": "candleSnapshot",
		"req": map[string]interface{}{
			"coin":      symbol,
			"interval":  "1d",
			"startTime": time.Now().Add(-24 * time.Hour).UnixMilli(),
		},
	}

	var candles []candle
	if err := c.postInfo(request, &candles); err == nil && len(candles) > 0 {
		open := parseFloat(candles[len(candles)-1].Open)
		if open > 0 {
			quote.DailyChangePercent = (price - open) / open * 100
		}
	}

	return quote, nil
}
