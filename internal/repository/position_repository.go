package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
	"github.com/google/uuid"
)

// PositionRepository persiste la lista de posiciones registradas (para la
// detección de posiciones nuevas) y las alertas generadas
type PositionRepository struct {
	db *sql.DB
}

func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// GetTrackedHashes obtiene el conjunto de hashes de posiciones ya vistas
func (r *PositionRepository) GetTrackedHashes() (map[string]bool, error) {
	rows, err := r.db.Query(`SELECT hash FROM tracked_positions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hashes := make(map[string]bool)
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, err
		}
		hashes[hash] = true
	}

	return hashes, rows.Err()
}

// ReplaceTrackedPositions reemplaza la lista persistida completa con el
// snapshot actual. No hay merge ni retención histórica.
func (r *PositionRepository) ReplaceTrackedPositions(positions []models.TrackedPosition) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM tracked_positions`); err != nil {
		tx.Rollback()
		return err
	}

	insertQuery := `
		INSERT INTO tracked_positions (hash, coin, size, entry_price, leverage, position_time)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	for _, pos := range positions {
		if _, err := tx.Exec(insertQuery, pos.Hash, pos.Coin, pos.Size, pos.EntryPrice, pos.Leverage, pos.Timestamp); err != nil {
			tx.Rollback()
			return fmt.Errorf("error al insertar posición %s: %w", pos.Coin, err)
		}
	}

	return tx.Commit()
}

// SaveAlert registra la detección de una posición nueva
func (r *PositionRepository) SaveAlert(position models.TrackedPosition) error {
	query := `
		INSERT INTO position_alerts (id, coin, size, entry_price, leverage, hash, detected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(
		query,
		uuid.New().String(),
		position.Coin,
		position.Size,
		position.EntryPrice,
		position.Leverage,
		position.Hash,
		time.Now(),
	)

	if err != nil {
		log.Printf("Error al guardar alerta para %s: %v", position.Coin, err)
	}

	return err
}

// GetRecentAlerts obtiene las últimas alertas de posiciones nuevas
func (r *PositionRepository) GetRecentAlerts(limit int) ([]models.PositionAlert, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, coin, size, entry_price, leverage, hash, detected_at
		FROM position_alerts
		ORDER BY detected_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []models.PositionAlert
	for rows.Next() {
		var alert models.PositionAlert
		if err := rows.Scan(&alert.ID, &alert.Coin, &alert.Size, &alert.EntryPrice, &alert.Leverage, &alert.Hash, &alert.DetectedAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}

	return alerts, rows.Err()
}
