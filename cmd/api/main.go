package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/VaultoHoldings/vaulto-api.git/internal/database"
	"github.com/VaultoHoldings/vaulto-api.git/internal/middleware"
	"github.com/VaultoHoldings/vaulto-api.git/internal/repository"
	routes "github.com/VaultoHoldings/vaulto-api.git/internal/server"
	"github.com/VaultoHoldings/vaulto-api.git/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Cargar variables de entorno
	if err := godotenv.Load(); err != nil {
		log.Printf("No se pudo cargar el archivo .env: %v", err)
	}

	// Crear el router de Gin
	router := gin.Default()

	// Configurar CORS para el frontend del dashboard
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"http://localhost:3000", "https://vaultoholdings.com"}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Admin-Key"}
	config.AllowCredentials = true
	config.ExposeHeaders = []string{"Content-Length"}
	router.Use(cors.New(config))

	// Inicializar base de datos
	if err := database.InitDB(); err != nil {
		log.Fatalf("Error al inicializar la base de datos: %v", err)
	}
	defer database.DB.Close()

	// Repositorios
	priceRepo := repository.NewPriceRepository(database.DB)
	positionRepo := repository.NewPositionRepository(database.DB)
	snapshotRepo := repository.NewSnapshotRepository(database.DB)
	contactRepo := repository.NewContactRepository(database.DB)

	// Servicios
	priceService := services.NewPriceService(priceTTL(), services.DefaultSources(), priceRepo)
	vaultService := services.NewVaultService(services.NewHyperliquidClient(), services.NewEtherscanClient(), priceService)
	historyService := services.NewHistoryService(services.NewCoinGeckoClient(), services.NewYahooClient())
	contactService := services.NewContactService(contactRepo)
	tracker := services.NewPositionTracker(positionRepo)

	middleware.InitServices(priceService, vaultService, historyService, contactService, snapshotRepo, positionRepo)

	// Iniciar el servicio de actualización de fondo
	priceUpdater := services.NewPriceUpdater(refreshInterval(), priceService, vaultService, tracker, snapshotRepo, positionRepo)
	priceUpdater.Start()
	defer priceUpdater.Stop()

	// Hacer disponible el actualizador para los handlers
	middleware.SetPriceUpdater(priceUpdater)

	// Iniciar el feed de mids en vivo para mantener el caché caliente
	midFeed := services.NewMidFeed(priceService, []string{"ETH", "BTC"})
	midFeed.Start()
	defer midFeed.Stop()

	// Configurar las rutas
	routes.RegisterRoutes(router)

	// Iniciar el servidor
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Error al iniciar el servidor: %v", err)
	}
}

// refreshInterval lee el intervalo del actualizador desde el entorno (en segundos)
func refreshInterval() time.Duration {
	if value := os.Getenv("REFRESH_INTERVAL_SECONDS"); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 30 * time.Second
}

// priceTTL lee la vigencia del caché de precios desde el entorno (en segundos)
func priceTTL() time.Duration {
	if value := os.Getenv("PRICE_TTL_SECONDS"); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 60 * time.Second
}
