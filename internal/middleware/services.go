package middleware

import (
	"github.com/VaultoHoldings/vaulto-api.git/internal/repository"
	"github.com/VaultoHoldings/vaulto-api.git/internal/services"
)

// Servicios y repositorios compartidos por los handlers
var (
	priceService    *services.PriceService
	vaultService    *services.VaultService
	historyService  *services.HistoryService
	contactService  *services.ContactService
	priceUpdater    *services.PriceUpdater
	snapshotRepo    *repository.SnapshotRepository
	positionRepo    *repository.PositionRepository
)

// InitServices registra los servicios que usan los handlers
func InitServices(prices *services.PriceService, vault *services.VaultService, history *services.HistoryService, contact *services.ContactService, snapshots *repository.SnapshotRepository, positions *repository.PositionRepository) {
	priceService = prices
	vaultService = vault
	historyService = history
	contactService = contact
	snapshotRepo = snapshots
	positionRepo = positions
}

// SetPriceUpdater hace disponible el actualizador de fondo para los handlers
func SetPriceUpdater(updater *services.PriceUpdater) {
	priceUpdater = updater
}
