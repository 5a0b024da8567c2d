package services

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
)

// VaultStateFetcher obtiene el estado crudo del vault (implementado por HyperliquidClient)
type VaultStateFetcher interface {
	GetVaultState(address string) (*models.VaultState, error)
}

// ChainBalanceFetcher obtiene el balance on-chain (implementado por EtherscanClient)
type ChainBalanceFetcher interface {
	GetETHBalance(address string) (float64, error)
}

const defaultVaultTTL = 30 * time.Second

// VaultService calcula las métricas derivadas del vault combinando el estado
// de Hyperliquid, el balance on-chain y el precio de ETH. Las métricas se
// recalculan en cada refresco y solo viven en el caché de corto plazo.
type VaultService struct {
	hyperliquid  VaultStateFetcher
	etherscan    ChainBalanceFetcher
	prices       *PriceService
	vaultAddress string
	ethAddress   string

	mutex     sync.Mutex
	cached    *models.VaultMetrics
	fetchedAt time.Time
	ttl       time.Duration
}

func NewVaultService(hyperliquid VaultStateFetcher, etherscan ChainBalanceFetcher, prices *PriceService) *VaultService {
	return &VaultService{
		hyperliquid:  hyperliquid,
		etherscan:    etherscan,
		prices:       prices,
		vaultAddress: os.Getenv("VAULT_ADDRESS"),
		ethAddress:   os.Getenv("VAULT_ETH_ADDRESS"),
		ttl:          defaultVaultTTL,
	}
}

// NewVaultServiceWithAddresses permite fijar direcciones y TTL (usado en tests)
func NewVaultServiceWithAddresses(hyperliquid VaultStateFetcher, etherscan ChainBalanceFetcher, prices *PriceService, vaultAddress, ethAddress string, ttl time.Duration) *VaultService {
	if ttl <= 0 {
		ttl = defaultVaultTTL
	}
	return &VaultService{
		hyperliquid:  hyperliquid,
		etherscan:    etherscan,
		prices:       prices,
		vaultAddress: vaultAddress,
		ethAddress:   ethAddress,
		ttl:          ttl,
	}
}

// GetMetrics devuelve las métricas del vault, usando el caché si tiene menos
// de 30 segundos. Si Hyperliquid falla se devuelven las últimas métricas
// calculadas (marcadas con su timestamp original) en lugar de un error.
func (s *VaultService) GetMetrics() (*models.VaultMetrics, error) {
	s.mutex.Lock()
	if s.cached != nil && time.Since(s.fetchedAt) < s.ttl {
		metrics := s.cached
		s.mutex.Unlock()
		return metrics, nil
	}
	s.mutex.Unlock()

	metrics, err := s.computeMetrics()
	if err != nil {
		// Degradar al último valor calculado si existe
		s.mutex.Lock()
		defer s.mutex.Unlock()
		if s.cached != nil {
			log.Printf("Error al refrescar métricas del vault, usando últimas conocidas: %v", err)
			return s.cached, nil
		}
		return nil, err
	}

	s.mutex.Lock()
	s.cached = metrics
	s.fetchedAt = time.Now()
	s.mutex.Unlock()

	return metrics, nil
}

func (s *VaultService) computeMetrics() (*models.VaultMetrics, error) {
	state, err := s.hyperliquid.GetVaultState(s.vaultAddress)
	if err != nil {
		return nil, fmt.Errorf("error al obtener estado del vault: %w", err)
	}

	ethQuote := s.prices.GetPrice("ETH")

	// El balance on-chain es la pata de efectivo del NAV; si Etherscan
	// falla el dashboard sigue mostrando el resto de métricas
	chainBalanceETH := 0.0
	if s.etherscan != nil && s.ethAddress != "" {
		balance, err := s.etherscan.GetETHBalance(s.ethAddress)
		if err != nil {
			log.Printf("Error al obtener balance on-chain, se omite del NAV: %v", err)
		} else {
			chainBalanceETH = balance
		}
	}

	chainBalanceUSD := chainBalanceETH * ethQuote.Current
	navUSD := state.AccountValue + chainBalanceUSD

	navETH := 0.0
	if ethQuote.Current > 0 {
		navETH = navUSD / ethQuote.Current
	}

	effectiveLeverage := 0.0
	if state.AccountValue > 0 {
		effectiveLeverage = state.TotalNotional / state.AccountValue
	}

	unrealizedPnl := 0.0
	for _, pos := range state.Positions {
		unrealizedPnl += pos.UnrealizedPnl
	}

	return &models.VaultMetrics{
		NavUSD:             navUSD,
		NavETH:             navETH,
		AccountValue:       state.AccountValue,
		ChainBalanceETH:    chainBalanceETH,
		ChainBalanceUSD:    chainBalanceUSD,
		TotalNotional:      state.TotalNotional,
		EffectiveLeverage:  effectiveLeverage,
		UnrealizedPnl:      unrealizedPnl,
		DailyChangePercent: ethQuote.DailyChangePercent,
		EthPrice:           ethQuote.Current,
		Positions:          state.Positions,
		LastUpdated:        time.Now(),
	}, nil
}

// TrackedPositions convierte las posiciones actuales del vault al formato
// que usa la detección de posiciones nuevas
func (s *VaultService) TrackedPositions() ([]models.TrackedPosition, error) {
	metrics, err := s.GetMetrics()
	if err != nil {
		return nil, err
	}

	positions := make([]models.TrackedPosition, 0, len(metrics.Positions))
	for _, pos := range metrics.Positions {
		positions = append(positions, models.TrackedPosition{
			Coin:       pos.Coin,
			Size:       pos.Size,
			EntryPrice: pos.EntryPrice,
			Leverage:   pos.Leverage,
			Timestamp:  metrics.LastUpdated,
			Hash:       models.PositionHash(pos.Coin, pos.Size, pos.EntryPrice, pos.Leverage),
		})
	}

	return positions, nil
}
