package repository

import (
	"testing"
	"time"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trackedFixture() []models.TrackedPosition {
	return []models.TrackedPosition{
		{Hash: "abc123", Coin: "ETH", Size: -120.5, EntryPrice: 3010.25, Leverage: 5, Timestamp: time.Now()},
		{Hash: "def456", Coin: "BTC", Size: 2.75, EntryPrice: 89500.10, Leverage: 3, Timestamp: time.Now()},
	}
}

func TestReplaceTrackedPositions(t *testing.T) {
	repo := NewPositionRepository(newTestDB(t))

	require.NoError(t, repo.ReplaceTrackedPositions(trackedFixture()))

	hashes, err := repo.GetTrackedHashes()
	require.NoError(t, err)
	assert.True(t, hashes["abc123"])
	assert.True(t, hashes["def456"])
	assert.Len(t, hashes, 2)

	// El reemplazo elimina los hashes que ya no están en el snapshot
	require.NoError(t, repo.ReplaceTrackedPositions(trackedFixture()[:1]))

	hashes, err = repo.GetTrackedHashes()
	require.NoError(t, err)
	assert.True(t, hashes["abc123"])
	assert.Len(t, hashes, 1)
}

func TestReplaceTrackedPositionsEmptySnapshot(t *testing.T) {
	repo := NewPositionRepository(newTestDB(t))

	require.NoError(t, repo.ReplaceTrackedPositions(trackedFixture()))
	require.NoError(t, repo.ReplaceTrackedPositions(nil))

	hashes, err := repo.GetTrackedHashes()
	require.NoError(t, err)
	assert.Empty(t, hashes)
}

func TestSaveAndGetAlerts(t *testing.T) {
	repo := NewPositionRepository(newTestDB(t))

	for _, pos := range trackedFixture() {
		require.NoError(t, repo.SaveAlert(pos))
	}

	alerts, err := repo.GetRecentAlerts(10)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	for _, alert := range alerts {
		assert.NotEmpty(t, alert.ID)
		assert.NotEmpty(t, alert.Hash)
		assert.False(t, alert.DetectedAt.IsZero())
	}
}

func TestGetRecentAlertsRespectsLimit(t *testing.T) {
	repo := NewPositionRepository(newTestDB(t))

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.SaveAlert(models.TrackedPosition{
			Hash: "hash", Coin: "ETH", Size: float64(i), EntryPrice: 3000, Leverage: 5,
		}))
	}

	alerts, err := repo.GetRecentAlerts(3)
	require.NoError(t, err)
	assert.Len(t, alerts, 3)
}
