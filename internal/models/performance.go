package models

import "time"

// NavSnapshot es un registro diario del valor del vault, con máximo y mínimo del día
type NavSnapshot struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	NavUSD        float64   `json:"nav_usd"`
	NavETH        float64   `json:"nav_eth"`
	AccountValue  float64   `json:"account_value"`
	UnrealizedPnl float64   `json:"unrealized_pnl"`
	MaxValue      float64   `json:"max_value"`
	MinValue      float64   `json:"min_value"`
}

// PerformanceSummary resume el rendimiento del vault en un periodo
type PerformanceSummary struct {
	Period        string        `json:"period"`
	StartValue    float64       `json:"start_value"`
	EndValue      float64       `json:"end_value"`
	Change        float64       `json:"change"`
	ChangePercent float64       `json:"change_percent"`
	BestDay       *NavSnapshot  `json:"best_day,omitempty"`
	WorstDay      *NavSnapshot  `json:"worst_day,omitempty"`
	Snapshots     []NavSnapshot `json:"snapshots"`
}
