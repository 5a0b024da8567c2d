package services

import (
	"testing"
	"time"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repo de prueba en memoria para el tracker
type memoryPositionRepo struct {
	hashes map[string]bool
}

func newMemoryPositionRepo() *memoryPositionRepo {
	return &memoryPositionRepo{hashes: make(map[string]bool)}
}

func (r *memoryPositionRepo) GetTrackedHashes() (map[string]bool, error) {
	copied := make(map[string]bool, len(r.hashes))
	for hash := range r.hashes {
		copied[hash] = true
	}
	return copied, nil
}

func (r *memoryPositionRepo) ReplaceTrackedPositions(positions []models.TrackedPosition) error {
	r.hashes = make(map[string]bool, len(positions))
	for _, pos := range positions {
		r.hashes[pos.Hash] = true
	}
	return nil
}

func samplePositions() []models.TrackedPosition {
	return []models.TrackedPosition{
		{Coin: "ETH", Size: -120.5, EntryPrice: 3010.25, Leverage: 5, Timestamp: time.Now()},
		{Coin: "BTC", Size: 2.75, EntryPrice: 89500.10, Leverage: 3, Timestamp: time.Now()},
	}
}

func TestDetectNewPositionsFirstRun(t *testing.T) {
	tracker := NewPositionTracker(newMemoryPositionRepo())

	newPositions, err := tracker.DetectNewPositions(samplePositions())
	require.NoError(t, err)
	assert.Len(t, newPositions, 2)
}

func TestDetectNewPositionsIdenticalListReportsNothing(t *testing.T) {
	tracker := NewPositionTracker(newMemoryPositionRepo())

	_, err := tracker.DetectNewPositions(samplePositions())
	require.NoError(t, err)

	// Una lista idéntica en el segundo chequeo no reporta nada
	newPositions, err := tracker.DetectNewPositions(samplePositions())
	require.NoError(t, err)
	assert.Empty(t, newPositions)
}

func TestDetectNewPositionsReportsOnlyChanged(t *testing.T) {
	tracker := NewPositionTracker(newMemoryPositionRepo())

	_, err := tracker.DetectNewPositions(samplePositions())
	require.NoError(t, err)

	// Cambiar el tamaño de la posición de ETH genera un hash nuevo
	changed := samplePositions()
	changed[0].Size = -150.0

	newPositions, err := tracker.DetectNewPositions(changed)
	require.NoError(t, err)
	require.Len(t, newPositions, 1)
	assert.Equal(t, "ETH", newPositions[0].Coin)
}

func TestDetectNewPositionsReplacesSnapshot(t *testing.T) {
	repo := newMemoryPositionRepo()
	tracker := NewPositionTracker(repo)

	_, err := tracker.DetectNewPositions(samplePositions())
	require.NoError(t, err)
	require.Len(t, repo.hashes, 2)

	// La lista persistida se reemplaza completa: una posición cerrada desaparece
	only := samplePositions()[:1]
	_, err = tracker.DetectNewPositions(only)
	require.NoError(t, err)
	assert.Len(t, repo.hashes, 1)

	// Si la posición cerrada reaparece, se reporta como nueva otra vez
	newPositions, err := tracker.DetectNewPositions(samplePositions())
	require.NoError(t, err)
	require.Len(t, newPositions, 1)
	assert.Equal(t, "BTC", newPositions[0].Coin)
}

func TestPositionHashDeterministic(t *testing.T) {
	hash1 := models.PositionHash("ETH", -120.5, 3010.25, 5)
	hash2 := models.PositionHash("ETH", -120.5, 3010.25, 5)
	assert.Equal(t, hash1, hash2)

	// El redondeo absorbe ruido de punto flotante
	hash3 := models.PositionHash("ETH", -120.50004, 3010.251, 5.04)
	assert.Equal(t, hash1, hash3)

	// Un cambio real de tamaño produce un hash distinto
	hash4 := models.PositionHash("ETH", -121.0, 3010.25, 5)
	assert.NotEqual(t, hash1, hash4)

	// El hash depende también de la moneda
	hash5 := models.PositionHash("BTC", -120.5, 3010.25, 5)
	assert.NotEqual(t, hash1, hash5)
}
