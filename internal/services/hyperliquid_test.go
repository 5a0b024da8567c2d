package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clearinghouseFixture = `{
	"marginSummary": {
		"accountValue": "1250000.5",
		"totalNtlPos": "3100000.0",
		"totalMarginUsed": "620000.0"
	},
	"assetPositions": [
		{
			"type": "oneWay",
			"position": {
				"coin": "ETH",
				"szi": "-850.25",
				"entryPx": "3010.5",
				"positionValue": "2550000.0",
				"unrealizedPnl": "15000.75",
				"leverage": {"type": "cross", "value": 5},
				"liquidationPx": "4100.0",
				"marginUsed": "510000.0",
				"returnOnEquity": "0.12"
			}
		},
		{
			"type": "oneWay",
			"position": {
				"coin": "BTC",
				"szi": "0",
				"entryPx": "90000",
				"positionValue": "0",
				"unrealizedPnl": "0",
				"leverage": {"type": "cross", "value": 3},
				"liquidationPx": "",
				"marginUsed": "0",
				"returnOnEquity": "0"
			}
		}
	],
	"time": 1735689600000
}`

// servidor de prueba que despacha según el tipo de consulta /info
func newHyperliquidTestServer(t *testing.T, mids map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/info", r.URL.Path)

		var request map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))

		switch request["type"] {
		case "clearinghouseState":
			w.Write([]byte(clearinghouseFixture))
		case "allMids":
			json.NewEncoder(w).Encode(mids)
		case "candleSnapshot":
			w.Write([]byte(`[{"t": 1735689600000, "o": "2950.0", "c": "3000.5", "h": "3050.0", "l": "2900.0"}]`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func TestGetVaultState(t *testing.T) {
	server := newHyperliquidTestServer(t, nil)
	defer server.Close()

	client := NewHyperliquidClientWithURL(server.URL)
	state, err := client.GetVaultState("0xabc123")
	require.NoError(t, err)

	assert.Equal(t, 1250000.5, state.AccountValue)
	assert.Equal(t, 3100000.0, state.TotalNotional)
	assert.Equal(t, 620000.0, state.TotalMarginUsed)

	// La posición con tamaño cero se ignora
	require.Len(t, state.Positions, 1)
	pos := state.Positions[0]
	assert.Equal(t, "ETH", pos.Coin)
	assert.Equal(t, -850.25, pos.Size)
	assert.Equal(t, 3010.5, pos.EntryPrice)
	assert.Equal(t, 5.0, pos.Leverage)
	assert.Equal(t, 15000.75, pos.UnrealizedPnl)
	assert.Equal(t, 4100.0, pos.LiquidationPrice)
}

func TestGetVaultStateRequiresAddress(t *testing.T) {
	client := NewHyperliquidClientWithURL("http://localhost:0")
	_, err := client.GetVaultState("")
	assert.Error(t, err)
}

func TestGetAllMids(t *testing.T) {
	server := newHyperliquidTestServer(t, map[string]string{
		"ETH":  "3000.5",
		"BTC":  "90500.0",
		"malo": "no-numérico",
	})
	defer server.Close()

	client := NewHyperliquidClientWithURL(server.URL)
	mids, err := client.GetAllMids()
	require.NoError(t, err)

	assert.Equal(t, 3000.5, mids["ETH"])
	assert.Equal(t, 90500.0, mids["BTC"])
	// Los valores no numéricos se descartan
	_, exists := mids["malo"]
	assert.False(t, exists)
}

func TestHyperliquidGetPrice(t *testing.T) {
	server := newHyperliquidTestServer(t, map[string]string{"ETH": "3000.5"})
	defer server.Close()

	client := NewHyperliquidClientWithURL(server.URL)
	quote, err := client.GetPrice("ETH")
	require.NoError(t, err)

	assert.Equal(t, 3000.5, quote.Current)
	assert.Equal(t, "hyperliquid", quote.Source)
	// Variación derivada de la apertura de la vela diaria: (3000.5-2950)/2950
	assert.InDelta(t, 1.712, quote.DailyChangePercent, 0.01)
}

func TestHyperliquidGetPriceUnknownSymbol(t *testing.T) {
	server := newHyperliquidTestServer(t, map[string]string{"ETH": "3000.5"})
	defer server.Close()

	client := NewHyperliquidClientWithURL(server.URL)
	_, err := client.GetPrice("DOGE")
	assert.Error(t, err)
}
