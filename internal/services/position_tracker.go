package services

import (
	"log"
	"time"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
)

// PositionRepositoryInterface define las operaciones de persistencia del tracker
type PositionRepositoryInterface interface {
	GetTrackedHashes() (map[string]bool, error)
	ReplaceTrackedPositions(positions []models.TrackedPosition) error
}

// PositionTracker detecta posiciones nuevas comparando el hash de cada
// posición actual contra la lista persistida de hashes ya vistos.
// La lista persistida se reemplaza completa en cada chequeo: no hay
// merge ni retención histórica.
type PositionTracker struct {
	repo PositionRepositoryInterface
}

func NewPositionTracker(repo PositionRepositoryInterface) *PositionTracker {
	return &PositionTracker{repo: repo}
}

// DetectNewPositions devuelve las posiciones cuyo hash no estaba en la lista
// persistida. Una lista idéntica en dos chequeos seguidos no reporta nada
// la segunda vez.
func (t *PositionTracker) DetectNewPositions(current []models.TrackedPosition) ([]models.TrackedPosition, error) {
	seen, err := t.repo.GetTrackedHashes()
	if err != nil {
		return nil, err
	}

	var newPositions []models.TrackedPosition
	for i := range current {
		// Asegurar que cada posición tenga su hash calculado
		if current[i].Hash == "" {
			current[i].Hash = models.PositionHash(
				current[i].Coin, current[i].Size, current[i].EntryPrice, current[i].Leverage,
			)
		}
		if current[i].Timestamp.IsZero() {
			current[i].Timestamp = time.Now()
		}

		if !seen[current[i].Hash] {
			newPositions = append(newPositions, current[i])
		}
	}

	// Reemplazar el snapshot persistido con la lista actual
	if err := t.repo.ReplaceTrackedPositions(current); err != nil {
		log.Printf("Error al reemplazar posiciones registradas: %v", err)
		return newPositions, err
	}

	return newPositions, nil
}
