package repository

import (
	"testing"
	"time"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceRepositorySaveAndGet(t *testing.T) {
	repo := NewPriceRepository(newTestDB(t))

	quote := models.PriceQuote{
		Symbol:             "ETH",
		Current:            3010.25,
		DailyChangePercent: 2.5,
		Timestamp:          time.Now().UTC().Truncate(time.Second),
		Source:             "coingecko",
	}

	require.NoError(t, repo.SaveQuote(quote))

	loaded, err := repo.GetQuote("ETH")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, quote.Current, loaded.Current)
	assert.Equal(t, quote.DailyChangePercent, loaded.DailyChangePercent)
	assert.Equal(t, quote.Source, loaded.Source)
}

func TestPriceRepositoryUpsertReplaces(t *testing.T) {
	repo := NewPriceRepository(newTestDB(t))

	first := models.PriceQuote{Symbol: "BTC", Current: 90000, DailyChangePercent: 1.0, Timestamp: time.Now(), Source: "coingecko"}
	require.NoError(t, repo.SaveQuote(first))

	// Guardar de nuevo el mismo símbolo reemplaza el registro
	second := models.PriceQuote{Symbol: "BTC", Current: 91500, DailyChangePercent: -0.5, Timestamp: time.Now(), Source: "yahoo"}
	require.NoError(t, repo.SaveQuote(second))

	loaded, err := repo.GetQuote("BTC")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 91500.0, loaded.Current)
	assert.Equal(t, "yahoo", loaded.Source)
}

func TestPriceRepositoryGetMissing(t *testing.T) {
	repo := NewPriceRepository(newTestDB(t))

	// Un símbolo sin registro devuelve nil sin error
	loaded, err := repo.GetQuote("DOGE")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
