package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/big"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"
)

const etherscanBaseURL = "https://api.etherscan.io/v2/api"

// EtherscanClient consulta el balance on-chain de la dirección del vault
// usando la API V2 de Etherscan, con un caché corto propio.
type EtherscanClient struct {
	baseURL string
	apiKey  string

	mutex      sync.Mutex
	cachedETH  float64
	cachedAt   time.Time
	hasBalance bool
}

const etherscanCacheTTL = 5 * time.Minute

func NewEtherscanClient() *EtherscanClient {
	return &EtherscanClient{
		baseURL: etherscanBaseURL,
		apiKey:  os.Getenv("ETHERSCAN_API_KEY"),
	}
}

// NewEtherscanClientWithURL permite apuntar a otro servidor (usado en tests)
func NewEtherscanClientWithURL(baseURL, apiKey string) *EtherscanClient {
	return &EtherscanClient{baseURL: baseURL, apiKey: apiKey}
}

type etherscanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// GetETHBalance obtiene el balance de ETH de una dirección, en ETH.
// En caso de error devuelve el último balance conocido si existe.
func (c *EtherscanClient) GetETHBalance(address string) (float64, error) {
	c.mutex.Lock()
	if c.hasBalance && time.Since(c.cachedAt) < etherscanCacheTTL {
		balance := c.cachedETH
		c.mutex.Unlock()
		return balance, nil
	}
	c.mutex.Unlock()

	balance, err := c.fetchETHBalance(address)
	if err != nil {
		// Si hay error, usar el último balance conocido
		c.mutex.Lock()
		defer c.mutex.Unlock()
		if c.hasBalance {
			log.Printf("Error al consultar Etherscan, usando último balance conocido: %v", err)
			return c.cachedETH, nil
		}
		return 0, err
	}

	c.mutex.Lock()
	c.cachedETH = balance
	c.cachedAt = time.Now()
	c.hasBalance = true
	c.mutex.Unlock()

	return balance, nil
}

func (c *EtherscanClient) fetchETHBalance(address string) (float64, error) {
	if address == "" {
		return 0, fmt.Errorf("no se configuró la dirección de Ethereum del vault")
	}

	params := url.Values{}
	params.Set("chainid", "1")
	params.Set("module", "account")
	params.Set("action", "balance")
	params.Set("address", address)
	params.Set("tag", "latest")
	params.Set("apikey", c.apiKey)

	resp, err := httpClient.Get(c.baseURL + "?" + params.Encode())
	if err != nil {
		log.Printf("Error al consultar Etherscan para %s: %v", address, err)
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("Etherscan respondió con estado %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	var result etherscanResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, err
	}

	if result.Status != "1" {
		return 0, fmt.Errorf("error de Etherscan: %s", result.Message)
	}

	return weiToEther(result.Result)
}

// weiToEther convierte un balance en wei (string decimal) a ETH
func weiToEther(wei string) (float64, error) {
	value, ok := new(big.Int).SetString(wei, 10)
	if !ok {
		return 0, fmt.Errorf("balance inválido de Etherscan: %s", wei)
	}

	ether := new(big.Float).Quo(
		new(big.Float).SetInt(value),
		big.NewFloat(1e18),
	)

	result, _ := ether.Float64()
	return result, nil
}
