package models

import "time"

// VaultPosition representa una posición abierta en el vault de Hyperliquid
type VaultPosition struct {
	Coin             string  `json:"coin"`
	Size             float64 `json:"size"` // con signo: positivo long, negativo short
	EntryPrice       float64 `json:"entry_price"`
	PositionValue    float64 `json:"position_value"`
	UnrealizedPnl    float64 `json:"unrealized_pnl"`
	Leverage         float64 `json:"leverage"`
	LiquidationPrice float64 `json:"liquidation_price"`
	MarginUsed       float64 `json:"margin_used"`
	ReturnOnEquity   float64 `json:"return_on_equity"`
}

// VaultState es el estado crudo del vault obtenido de Hyperliquid
type VaultState struct {
	AccountValue    float64         `json:"account_value"`
	TotalNotional   float64         `json:"total_notional"`
	TotalMarginUsed float64         `json:"total_margin_used"`
	Positions       []VaultPosition `json:"positions"`
	Timestamp       time.Time       `json:"timestamp"`
}

// VaultMetrics contiene las métricas derivadas que muestra el dashboard.
// Se recalculan en cada refresco, nunca se persisten.
type VaultMetrics struct {
	NavUSD             float64         `json:"nav_usd"`
	NavETH             float64         `json:"nav_eth"`
	AccountValue       float64         `json:"account_value"`
	ChainBalanceETH    float64         `json:"chain_balance_eth"`
	ChainBalanceUSD    float64         `json:"chain_balance_usd"`
	TotalNotional      float64         `json:"total_notional"`
	EffectiveLeverage  float64         `json:"effective_leverage"`
	UnrealizedPnl      float64         `json:"unrealized_pnl"`
	DailyChangePercent float64         `json:"daily_change_percent"`
	EthPrice           float64         `json:"eth_price"`
	Positions          []VaultPosition `json:"positions"`
	LastUpdated        time.Time       `json:"last_updated"`
}

// DashboardPayload es la respuesta completa que consume la página del dashboard
type DashboardPayload struct {
	Metrics     *VaultMetrics          `json:"metrics"`
	Prices      map[string]PriceQuote  `json:"prices"`
	Performance *PerformanceSummary    `json:"performance,omitempty"`
	Alerts      []PositionAlert        `json:"alerts,omitempty"`
	LastUpdated time.Time              `json:"last_updated"`
}
