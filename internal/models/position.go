package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TrackedPosition es una posición registrada para la detección de posiciones nuevas.
// Se persiste como lista plana y se compara por hash de contenido.
type TrackedPosition struct {
	Coin       string    `json:"coin"`
	Size       float64   `json:"size"`
	EntryPrice float64   `json:"entry_price"`
	Leverage   float64   `json:"leverage"`
	Timestamp  time.Time `json:"timestamp"`
	Hash       string    `json:"hash"`
}

// PositionAlert registra la detección de una posición nueva en el vault
type PositionAlert struct {
	ID         string    `json:"id"`
	Coin       string    `json:"coin"`
	Size       float64   `json:"size"`
	EntryPrice float64   `json:"entry_price"`
	Leverage   float64   `json:"leverage"`
	Hash       string    `json:"hash"`
	DetectedAt time.Time `json:"detected_at"`
}

// PositionHash calcula un hash determinista del contenido de una posición.
// Se redondean los valores (tamaño a 4 decimales, precio de entrada a 2,
// apalancamiento a 1) para que pequeñas variaciones de punto flotante
// no generen falsas posiciones nuevas.
func PositionHash(coin string, size, entryPrice, leverage float64) string {
	canonical := fmt.Sprintf("%s|%s|%s|%s",
		coin,
		decimal.NewFromFloat(size).Round(4).String(),
		decimal.NewFromFloat(entryPrice).Round(2).String(),
		decimal.NewFromFloat(leverage).Round(1).String(),
	)

	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])[:16]
}
