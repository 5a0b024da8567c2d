package models

import "time"

// PriceQuote representa el precio actual de un activo con su variación de 24 horas
type PriceQuote struct {
	Symbol             string    `json:"symbol"`
	Current            float64   `json:"current"`
	DailyChangePercent float64   `json:"daily_change_percent"`
	Timestamp          time.Time `json:"timestamp"`
	Source             string    `json:"source"` // coingecko, yahoo, hyperliquid, cache, stale-cache, fallback
}

// PricePoint es un punto individual de la serie histórica de precios
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// PriceHistory contiene la serie histórica de precios para un activo
type PriceHistory struct {
	Symbol   string       `json:"symbol"`
	Period   string       `json:"period"` // day, week, month, year
	Currency string       `json:"currency"`
	Source   string       `json:"source"`
	Points   []PricePoint `json:"points"`
}

// CacheStatus describe el estado del caché de precios para el panel de administración
type CacheStatus struct {
	Symbol     string    `json:"symbol"`
	Source     string    `json:"source"`
	Price      float64   `json:"price"`
	AgeSeconds float64   `json:"age_seconds"`
	Expired    bool      `json:"expired"`
	UpdatedAt  time.Time `json:"updated_at"`
}
