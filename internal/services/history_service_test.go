package services

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marketChartBody = `{"prices": [[1735689600000, 2950.0], [1735693200000, 3000.5]]}`

const yahooChartBody = `{
	"chart": {
		"result": [{
			"meta": {"regularMarketPrice": 3000.5, "chartPreviousClose": 2950.0},
			"timestamp": [1735689600, 1735693200],
			"indicators": {"quote": [{"close": [2950.0, 3000.5]}]}
		}],
		"error": null
	}
}`

func newHistoryService(coingeckoURL, yahooURL string) *HistoryService {
	return NewHistoryService(
		NewCoinGeckoClientWithURL(coingeckoURL),
		NewYahooClientWithURL(yahooURL),
	)
}

func TestGetHistoryPrimarySource(t *testing.T) {
	coingecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(marketChartBody))
	}))
	defer coingecko.Close()

	service := newHistoryService(coingecko.URL, "http://localhost:0")

	history, err := service.GetHistory("ETH", "day")
	require.NoError(t, err)

	assert.Equal(t, "day", history.Period)
	assert.Equal(t, "coingecko", history.Source)
	assert.Len(t, history.Points, 2)
}

func TestGetHistoryFallsBackToYahoo(t *testing.T) {
	coingecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer coingecko.Close()

	yahoo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(yahooChartBody))
	}))
	defer yahoo.Close()

	service := newHistoryService(coingecko.URL, yahoo.URL)

	history, err := service.GetHistory("ETH", "week")
	require.NoError(t, err)

	assert.Equal(t, "yahoo", history.Source)
	assert.Len(t, history.Points, 2)
}

func TestGetHistoryCachesResult(t *testing.T) {
	var calls int32
	coingecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(marketChartBody))
	}))
	defer coingecko.Close()

	service := newHistoryService(coingecko.URL, "http://localhost:0")

	_, err := service.GetHistory("ETH", "day")
	require.NoError(t, err)
	_, err = service.GetHistory("ETH", "day")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// Un periodo distinto es otra entrada de caché
	_, err = service.GetHistory("ETH", "week")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetHistoryReturnsExpiredCacheWhenSourcesFail(t *testing.T) {
	working := true
	coingecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !working {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(marketChartBody))
	}))
	defer coingecko.Close()

	service := newHistoryService(coingecko.URL, "http://localhost:0")

	first, err := service.GetHistory("ETH", "day")
	require.NoError(t, err)

	// Vencer la entrada de caché manualmente y tumbar la fuente
	service.mutex.Lock()
	entry := service.cache["ETH:day"]
	entry.Timestamp = entry.Timestamp.Add(-2 * historyCacheTTL)
	service.cache["ETH:day"] = entry
	service.mutex.Unlock()
	working = false

	second, err := service.GetHistory("ETH", "day")
	require.NoError(t, err)
	assert.Equal(t, first.Points, second.Points)
}

func TestGetHistoryUnsupportedPeriod(t *testing.T) {
	service := newHistoryService("http://localhost:0", "http://localhost:0")

	_, err := service.GetHistory("ETH", "decade")
	assert.Error(t, err)
}
