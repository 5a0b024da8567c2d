package services

import (
	"log"
	"sync"
	"time"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
)

// SnapshotRepositoryInterface define las operaciones que necesita el actualizador
// para persistir el historial diario del vault
type SnapshotRepositoryInterface interface {
	SaveNavSnapshot(navUSD, navETH, accountValue, unrealizedPnl float64) error
}

// AlertRepositoryInterface registra las alertas de posiciones nuevas
type AlertRepositoryInterface interface {
	SaveAlert(position models.TrackedPosition) error
}

// Los símbolos que el dashboard refresca en cada ciclo
var updaterSymbols = []string{"ETH", "BTC"}

// PriceUpdater es el servicio de fondo que refresca periódicamente los
// precios, las métricas del vault y la detección de posiciones nuevas
type PriceUpdater struct {
	interval     time.Duration
	prices       *PriceService
	vault        *VaultService
	tracker      *PositionTracker
	snapshotRepo SnapshotRepositoryInterface
	alertRepo    AlertRepositoryInterface

	isRunning   bool
	stopChan    chan struct{}
	mutex       sync.Mutex
	lastUpdated time.Time
	lastPayload *models.DashboardPayload
}

// NewPriceUpdater crea un nuevo servicio de actualización
func NewPriceUpdater(interval time.Duration, prices *PriceService, vault *VaultService, tracker *PositionTracker, snapshotRepo SnapshotRepositoryInterface, alertRepo AlertRepositoryInterface) *PriceUpdater {
	return &PriceUpdater{
		interval:     interval,
		prices:       prices,
		vault:        vault,
		tracker:      tracker,
		snapshotRepo: snapshotRepo,
		alertRepo:    alertRepo,
		stopChan:     make(chan struct{}),
	}
}

// Start inicia el servicio de actualización
func (p *PriceUpdater) Start() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.isRunning {
		return
	}

	p.isRunning = true
	p.stopChan = make(chan struct{})

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		// Actualizar inmediatamente al iniciar
		p.refreshAll()

		for {
			select {
			case <-ticker.C:
				p.refreshAll()
			case <-p.stopChan:
				return
			}
		}
	}()

	log.Printf("Servicio de actualización iniciado con intervalo de %v", p.interval)
}

// Stop detiene el servicio de actualización
func (p *PriceUpdater) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.isRunning {
		return
	}

	p.isRunning = false
	close(p.stopChan)
	log.Printf("Servicio de actualización detenido")
}

// ForceRefresh invalida el caché de precios y ejecuta un ciclo completo.
// Lo usa el endpoint de administración.
func (p *PriceUpdater) ForceRefresh() {
	for _, symbol := range updaterSymbols {
		p.prices.Invalidate(symbol)
	}
	p.refreshAll()
}

// refreshAll ejecuta un ciclo completo: precios, métricas del vault,
// snapshot diario y detección de posiciones nuevas.
// Ningún error es fatal: el dashboard siempre sirve el mejor dato disponible.
func (p *PriceUpdater) refreshAll() {
	quotes := make(map[string]models.PriceQuote, len(updaterSymbols))
	for _, symbol := range updaterSymbols {
		quotes[symbol] = p.prices.GetPrice(symbol)
	}

	payload := &models.DashboardPayload{
		Prices:      quotes,
		LastUpdated: time.Now(),
	}

	metrics, err := p.vault.GetMetrics()
	if err != nil {
		log.Printf("Error al obtener métricas del vault: %v", err)
	} else {
		payload.Metrics = metrics

		// Guardar el snapshot diario del valor del vault
		if p.snapshotRepo != nil {
			if err := p.snapshotRepo.SaveNavSnapshot(metrics.NavUSD, metrics.NavETH, metrics.AccountValue, metrics.UnrealizedPnl); err != nil {
				log.Printf("Error al guardar snapshot del vault: %v", err)
			}
		}

		p.detectNewPositions(payload)
	}

	p.mutex.Lock()
	p.lastPayload = payload
	p.lastUpdated = time.Now()
	p.mutex.Unlock()

	log.Printf("Ciclo de actualización completado: %d precios, métricas=%v", len(quotes), metrics != nil)
}

func (p *PriceUpdater) detectNewPositions(payload *models.DashboardPayload) {
	if p.tracker == nil {
		return
	}

	current, err := p.vault.TrackedPositions()
	if err != nil {
		log.Printf("Error al obtener posiciones para detección: %v", err)
		return
	}

	newPositions, err := p.tracker.DetectNewPositions(current)
	if err != nil {
		log.Printf("Error en la detección de posiciones nuevas: %v", err)
		return
	}

	for _, pos := range newPositions {
		log.Printf("Posición nueva detectada: %s tamaño=%.4f entrada=%.2f apalancamiento=%.1fx",
			pos.Coin, pos.Size, pos.EntryPrice, pos.Leverage)

		if p.alertRepo != nil {
			if err := p.alertRepo.SaveAlert(pos); err != nil {
				log.Printf("Error al guardar alerta de posición: %v", err)
			}
		}
	}
}

// GetCachedPayload devuelve el último payload completo calculado por el ciclo
func (p *PriceUpdater) GetCachedPayload() (*models.DashboardPayload, bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.lastPayload, p.lastPayload != nil
}

// GetLastUpdated obtiene la última vez que se completó un ciclo
func (p *PriceUpdater) GetLastUpdated() time.Time {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.lastUpdated
}
