package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinGeckoGetPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "ids=ethereum")
		w.Write([]byte(`{"ethereum": {"usd": 3000.75, "usd_24h_change": 2.35}}`))
	}))
	defer server.Close()

	client := NewCoinGeckoClientWithURL(server.URL)
	quote, err := client.GetPrice("ETH")
	require.NoError(t, err)

	assert.Equal(t, "ETH", quote.Symbol)
	assert.Equal(t, 3000.75, quote.Current)
	assert.Equal(t, 2.35, quote.DailyChangePercent)
	assert.Equal(t, "coingecko", quote.Source)
}

func TestCoinGeckoGetPriceErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		symbol  string
	}{
		{"símbolo no soportado", http.StatusOK, `{}`, "DOGE"},
		{"estado no 2xx", http.StatusTooManyRequests, `{}`, "ETH"},
		{"payload malformado", http.StatusOK, `no es json`, "ETH"},
		{"sin datos del activo", http.StatusOK, `{"bitcoin": {"usd": 90000}}`, "ETH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewCoinGeckoClientWithURL(server.URL)
			_, err := client.GetPrice(tt.symbol)
			assert.Error(t, err)
		})
	}
}

func TestCoinGeckoGetMarketChart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/coins/ethereum/market_chart")
		w.Write([]byte(`{"prices": [[1735689600000, 2950.0], [1735693200000, 3000.5]]}`))
	}))
	defer server.Close()

	client := NewCoinGeckoClientWithURL(server.URL)
	history, err := client.GetMarketChart("ETH", 1)
	require.NoError(t, err)

	require.Len(t, history.Points, 2)
	assert.Equal(t, 2950.0, history.Points[0].Price)
	assert.Equal(t, 3000.5, history.Points[1].Price)
	assert.Equal(t, "coingecko", history.Source)
}

func TestYahooGetPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v8/finance/chart/ETH-USD")
		w.Write([]byte(`{
			"chart": {
				"result": [{
					"meta": {"regularMarketPrice": 3020.0, "chartPreviousClose": 2950.0},
					"timestamp": [1735689600, 1735693200],
					"indicators": {"quote": [{"close": [2950.0, 3020.0]}]}
				}],
				"error": null
			}
		}`))
	}))
	defer server.Close()

	client := NewYahooClientWithURL(server.URL)
	quote, err := client.GetPrice("ETH")
	require.NoError(t, err)

	assert.Equal(t, 3020.0, quote.Current)
	assert.Equal(t, "yahoo", quote.Source)
	// (3020-2950)/2950 * 100
	assert.InDelta(t, 2.373, quote.DailyChangePercent, 0.01)
}

func TestYahooGetHistorySkipsNulls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"chart": {
				"result": [{
					"meta": {"regularMarketPrice": 3020.0, "chartPreviousClose": 2950.0},
					"timestamp": [1735689600, 1735693200, 1735696800],
					"indicators": {"quote": [{"close": [2950.0, null, 3020.0]}]}
				}],
				"error": null
			}
		}`))
	}))
	defer server.Close()

	client := NewYahooClientWithURL(server.URL)
	history, err := client.GetHistory("ETH", "1d", "1h")
	require.NoError(t, err)

	// El punto nulo del hueco de la serie se omite
	require.Len(t, history.Points, 2)
	assert.Equal(t, 2950.0, history.Points[0].Price)
	assert.Equal(t, 3020.0, history.Points[1].Price)
}

func TestYahooGetPriceAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart": {"result": [], "error": {"code": "Not Found", "description": "No data found"}}}`))
	}))
	defer server.Close()

	client := NewYahooClientWithURL(server.URL)
	_, err := client.GetPrice("ETH")
	assert.Error(t, err)
}
