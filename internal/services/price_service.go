package services

import (
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
)

// PriceRepositoryInterface define las operaciones de persistencia que necesita el servicio
type PriceRepositoryInterface interface {
	SaveQuote(quote models.PriceQuote) error
	GetQuote(symbol string) (*models.PriceQuote, error)
}

// PriceSource es una fuente de precios dentro de la cadena de fallback
type PriceSource struct {
	Name  string
	Fetch func(symbol string) (models.PriceQuote, error)
}

// Rangos de sanidad por activo: un precio fuera de rango se trata como
// fallo de la fuente y nunca se cachea ni se devuelve como actual
type sanityRange struct {
	Min float64
	Max float64
}

var sanityRanges = map[string]sanityRange{
	"ETH": {Min: 10, Max: 100000},
	"BTC": {Min: 1000, Max: 1000000},
}

var defaultSanityRange = sanityRange{Min: 0.000001, Max: 1000000}

// Umbral de variación de 24h: una magnitud mayor se considera dato corrupto
const maxDailyChangePercent = 50.0

// Precios de último recurso cuando fallan todas las fuentes y no hay caché
var fallbackPrices = map[string]float64{
	"ETH": 3000.0,
	"BTC": 90000.0,
}

// Vigencia máxima del registro persistido de último precio válido
const persistedQuoteMaxAge = 24 * time.Hour

const defaultPriceTTL = 60 * time.Second

type cachedQuote struct {
	Quote     models.PriceQuote
	Timestamp time.Time
}

// PriceService devuelve el mejor precio disponible para un activo:
// caché fresco, luego fuentes en orden fijo de prioridad, luego caché
// vencido, y como último recurso una constante por activo.
type PriceService struct {
	mutex    sync.Mutex
	cache    map[string]cachedQuote
	inFlight map[string]bool
	ttl      time.Duration
	sources  []PriceSource
	repo     PriceRepositoryInterface
}

// NewPriceService crea el servicio con la cadena de fuentes en orden de prioridad.
// repo puede ser nil (sin persistencia, usado en tests).
func NewPriceService(ttl time.Duration, sources []PriceSource, repo PriceRepositoryInterface) *PriceService {
	if ttl <= 0 {
		ttl = defaultPriceTTL
	}

	s := &PriceService{
		cache:    make(map[string]cachedQuote),
		inFlight: make(map[string]bool),
		ttl:      ttl,
		sources:  sources,
		repo:     repo,
	}

	// Cargar los últimos precios válidos persistidos (si tienen menos de 24h)
	s.loadPersistedQuotes()

	return s
}

// DefaultSources construye la cadena de fallback de producción:
// CoinGecko, luego Yahoo Finance, luego los mids de Hyperliquid
func DefaultSources() []PriceSource {
	coingecko := NewCoinGeckoClient()
	yahoo := NewYahooClient()
	hyperliquid := NewHyperliquidClient()

	return []PriceSource{
		{Name: "coingecko", Fetch: coingecko.GetPrice},
		{Name: "yahoo", Fetch: yahoo.GetPrice},
		{Name: "hyperliquid", Fetch: hyperliquid.GetPrice},
	}
}

func (s *PriceService) loadPersistedQuotes() {
	if s.repo == nil {
		return
	}

	for symbol := range fallbackPrices {
		quote, err := s.repo.GetQuote(symbol)
		if err != nil || quote == nil {
			continue
		}

		// Ignorar registros persistidos con más de 24 horas
		if time.Since(quote.Timestamp) > persistedQuoteMaxAge {
			continue
		}

		s.cache[symbol] = cachedQuote{Quote: *quote, Timestamp: quote.Timestamp}
		log.Printf("Precio persistido cargado para %s: %.2f (fuente %s)", symbol, quote.Current, quote.Source)
	}
}

// ValidateQuote verifica que un precio esté dentro del rango de sanidad del
// activo y que la variación de 24h tenga una magnitud razonable
func ValidateQuote(quote models.PriceQuote) error {
	bounds, exists := sanityRanges[quote.Symbol]
	if !exists {
		bounds = defaultSanityRange
	}

	if quote.Current < bounds.Min || quote.Current > bounds.Max {
		return fmt.Errorf("precio fuera de rango para %s: %.6f", quote.Symbol, quote.Current)
	}

	if math.Abs(quote.DailyChangePercent) > maxDailyChangePercent {
		return fmt.Errorf("variación de 24h sospechosa para %s: %.2f%%", quote.Symbol, quote.DailyChangePercent)
	}

	return nil
}

// GetPrice devuelve el mejor precio disponible para un símbolo.
// Nunca falla: si todas las fuentes fallan devuelve el último valor
// cacheado aunque esté vencido, o la constante de último recurso.
func (s *PriceService) GetPrice(symbol string) models.PriceQuote {
	s.mutex.Lock()

	// 1. Caché fresco: devolver sin llamada de red
	if cached, exists := s.cache[symbol]; exists {
		if time.Since(cached.Timestamp) < s.ttl {
			s.mutex.Unlock()
			return cached.Quote
		}
	}

	// 2. Si ya hay un fetch en curso para este símbolo, devolver el valor
	// vencido en lugar de duplicar la llamada
	if s.inFlight[symbol] {
		if cached, exists := s.cache[symbol]; exists {
			s.mutex.Unlock()
			stale := cached.Quote
			stale.Source = "stale-cache"
			return stale
		}
		s.mutex.Unlock()
		return s.fallbackQuote(symbol)
	}

	s.inFlight[symbol] = true
	s.mutex.Unlock()

	defer func() {
		s.mutex.Lock()
		delete(s.inFlight, symbol)
		s.mutex.Unlock()
	}()

	// 3. Recorrer las fuentes en orden de prioridad
	for _, source := range s.sources {
		quote, err := source.Fetch(symbol)
		if err != nil {
			log.Printf("Fuente %s falló para %s: %v", source.Name, symbol, err)
			continue
		}

		if err := ValidateQuote(quote); err != nil {
			// Un dato fuera de rango cuenta como fallo de la fuente
			log.Printf("Fuente %s devolvió dato inválido para %s: %v", source.Name, symbol, err)
			continue
		}

		quote.Symbol = symbol
		s.storeQuote(quote)
		return quote
	}

	// 4. Todas las fuentes fallaron: devolver el caché aunque esté vencido
	s.mutex.Lock()
	if cached, exists := s.cache[symbol]; exists {
		s.mutex.Unlock()
		stale := cached.Quote
		stale.Source = "stale-cache"
		log.Printf("Todas las fuentes fallaron para %s, devolviendo caché vencido", symbol)
		return stale
	}
	s.mutex.Unlock()

	// 5. Sin caché: constante de último recurso
	log.Printf("Todas las fuentes fallaron para %s y no hay caché, usando precio de respaldo", symbol)
	return s.fallbackQuote(symbol)
}

func (s *PriceService) fallbackQuote(symbol string) models.PriceQuote {
	price, exists := fallbackPrices[symbol]
	if !exists {
		price = 0
	}

	return models.PriceQuote{
		Symbol:             symbol,
		Current:            price,
		DailyChangePercent: 0,
		Timestamp:          time.Now(),
		Source:             "fallback",
	}
}

// storeQuote guarda un precio válido en el caché y en la persistencia
func (s *PriceService) storeQuote(quote models.PriceQuote) {
	s.mutex.Lock()
	s.cache[quote.Symbol] = cachedQuote{Quote: quote, Timestamp: quote.Timestamp}
	s.mutex.Unlock()

	if s.repo != nil {
		if err := s.repo.SaveQuote(quote); err != nil {
			log.Printf("Error al persistir precio de %s: %v", quote.Symbol, err)
		}
	}
}

// SetLiveMid actualiza el precio cacheado con un mid recibido por websocket.
// Conserva la variación de 24h de la última cotización completa; un mid sin
// cotización previa se ignora porque no trae variación de 24h.
func (s *PriceService) SetLiveMid(symbol string, price float64) {
	candidate := models.PriceQuote{Symbol: symbol, Current: price}
	if err := ValidateQuote(candidate); err != nil {
		log.Printf("Mid en vivo descartado para %s: %v", symbol, err)
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	cached, exists := s.cache[symbol]
	if !exists {
		return
	}

	cached.Quote.Current = price
	cached.Quote.Timestamp = time.Now()
	cached.Quote.Source = "hyperliquid-ws"
	cached.Timestamp = cached.Quote.Timestamp
	s.cache[symbol] = cached
}

// Invalidate vacía el caché de un símbolo, forzando un fetch en la próxima consulta
func (s *PriceService) Invalidate(symbol string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.cache, symbol)
}

// CacheStatus devuelve el estado del caché para el panel de administración
func (s *PriceService) CacheStatus() []models.CacheStatus {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	statuses := make([]models.CacheStatus, 0, len(s.cache))
	for symbol, cached := range s.cache {
		age := time.Since(cached.Timestamp)
		statuses = append(statuses, models.CacheStatus{
			Symbol:     symbol,
			Source:     cached.Quote.Source,
			Price:      cached.Quote.Current,
			AgeSeconds: age.Seconds(),
			Expired:    age >= s.ttl,
			UpdatedAt:  cached.Timestamp,
		})
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Symbol < statuses[j].Symbol
	})

	return statuses
}
