package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
)

// SnapshotRepository persiste el historial diario del valor del vault,
// manteniendo el máximo y mínimo de cada día
type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// SaveNavSnapshot guarda un snapshot del valor del vault en el intervalo
// diario actual, actualizando los valores máximo y mínimo del día
func (r *SnapshotRepository) SaveNavSnapshot(navUSD, navETH, accountValue, unrealizedPnl float64) error {
	// Verificar que los valores sean válidos
	if navUSD <= 0 {
		log.Printf("No se guardó el snapshot porque el NAV no es válido: %f", navUSD)
		return nil
	}

	// Truncar al inicio del día (00:00:00)
	currentTime := time.Now()
	currentInterval := time.Date(currentTime.Year(), currentTime.Month(), currentTime.Day(), 0, 0, 0, 0, currentTime.Location())
	nextInterval := currentInterval.AddDate(0, 0, 1)

	// Verificar si ya existe un snapshot para este intervalo
	existingQuery := `
		SELECT id, max_value, min_value
		FROM nav_snapshots
		WHERE date >= ? AND date < ?
		LIMIT 1
	`

	var existingID string
	var maxValue, minValue float64

	err := r.db.QueryRow(existingQuery, currentInterval, nextInterval).Scan(&existingID, &maxValue, &minValue)

	// Generar un ID único para el snapshot
	snapshotID := fmt.Sprintf("snapshot_%d", time.Now().UnixNano())

	if err == nil {
		// Ya existe un snapshot para hoy: actualizar máximo y mínimo
		newMaxValue := maxValue
		newMinValue := minValue

		if navUSD > maxValue {
			newMaxValue = navUSD
		}
		if navUSD < minValue {
			newMinValue = navUSD
		}

		// Reemplazar el snapshot existente con los valores actualizados
		if _, err := r.db.Exec(`DELETE FROM nav_snapshots WHERE id = ?`, existingID); err != nil {
			log.Printf("Error al eliminar snapshot existente: %v", err)
			return err
		}

		insertQuery := `
			INSERT INTO nav_snapshots (id, date, nav_usd, nav_eth, account_value, unrealized_pnl, max_value, min_value)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`

		_, err = r.db.Exec(insertQuery, snapshotID, currentInterval, navUSD, navETH, accountValue, unrealizedPnl, newMaxValue, newMinValue)
		if err != nil {
			log.Printf("Error al actualizar snapshot del día: %v", err)
		}
		return err
	} else if err == sql.ErrNoRows {
		// No existe snapshot para hoy: crear uno nuevo con max = min = valor actual
		insertQuery := `
			INSERT INTO nav_snapshots (id, date, nav_usd, nav_eth, account_value, unrealized_pnl, max_value, min_value)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`

		_, err = r.db.Exec(insertQuery, snapshotID, currentInterval, navUSD, navETH, accountValue, unrealizedPnl, navUSD, navUSD)
		if err != nil {
			log.Printf("Error al guardar nuevo snapshot: %v", err)
		}
		return err
	}

	return err
}

// GetSnapshots obtiene los snapshots desde una fecha de inicio, en orden cronológico
func (r *SnapshotRepository) GetSnapshots(startDate time.Time) ([]models.NavSnapshot, error) {
	query := `
		SELECT id, date, nav_usd, nav_eth, account_value, unrealized_pnl, max_value, min_value
		FROM nav_snapshots
		WHERE date >= ?
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, startDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []models.NavSnapshot
	for rows.Next() {
		var s models.NavSnapshot
		if err := rows.Scan(&s.ID, &s.Date, &s.NavUSD, &s.NavETH, &s.AccountValue, &s.UnrealizedPnl, &s.MaxValue, &s.MinValue); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

// GetPerformance calcula el resumen de rendimiento de un periodo a partir
// de los snapshots diarios
func (r *SnapshotRepository) GetPerformance(period string, startDate time.Time) (*models.PerformanceSummary, error) {
	snapshots, err := r.GetSnapshots(startDate)
	if err != nil {
		return nil, err
	}

	summary := &models.PerformanceSummary{
		Period:    period,
		Snapshots: snapshots,
	}

	if len(snapshots) == 0 {
		return summary, nil
	}

	first := snapshots[0]
	last := snapshots[len(snapshots)-1]

	summary.StartValue = first.NavUSD
	summary.EndValue = last.NavUSD
	summary.Change = last.NavUSD - first.NavUSD
	if first.NavUSD > 0 {
		summary.ChangePercent = summary.Change / first.NavUSD * 100
	}

	// Mejor y peor día según el valor del vault
	bestIdx, worstIdx := 0, 0
	for i, s := range snapshots {
		if s.NavUSD > snapshots[bestIdx].NavUSD {
			bestIdx = i
		}
		if s.NavUSD < snapshots[worstIdx].NavUSD {
			worstIdx = i
		}
	}

	summary.BestDay = &snapshots[bestIdx]
	summary.WorstDay = &snapshots[worstIdx]

	return summary, nil
}
