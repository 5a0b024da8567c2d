package database

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

func InitDB() error {
	// Crear el directorio database si no existe
	if err := os.MkdirAll("database", 0755); err != nil {
		return err
	}

	var err error
	DB, err = sql.Open("sqlite3", filepath.Join("database", "vaulto.db"))
	if err != nil {
		return err
	}

	return createTables(DB)
}

// InitDBAt abre la base de datos en una ruta específica (usado en tests)
func InitDBAt(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	// Crear tabla de últimos precios válidos conocidos
	createPriceQuotesTableSQL := `
	CREATE TABLE IF NOT EXISTS price_quotes (
		symbol TEXT PRIMARY KEY,
		price REAL NOT NULL,
		change_percent REAL NOT NULL,
		source TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);`

	_, err := db.Exec(createPriceQuotesTableSQL)
	if err != nil {
		return err
	}

	// Crear tabla de posiciones registradas para la detección de posiciones nuevas
	createTrackedPositionsTableSQL := `
	CREATE TABLE IF NOT EXISTS tracked_positions (
		hash TEXT PRIMARY KEY,
		coin TEXT NOT NULL,
		size REAL NOT NULL,
		entry_price REAL NOT NULL,
		leverage REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	_, err = db.Exec(createTrackedPositionsTableSQL)
	if err != nil {
		return err
	}

	// Crear tabla de alertas de posiciones nuevas
	createPositionAlertsTableSQL := `
	CREATE TABLE IF NOT EXISTS position_alerts (
		id TEXT PRIMARY KEY,
		coin TEXT NOT NULL,
		size REAL NOT NULL,
		entry_price REAL NOT NULL,
		leverage REAL NOT NULL,
		hash TEXT NOT NULL,
		detected_at DATETIME NOT NULL
	);`

	_, err = db.Exec(createPositionAlertsTableSQL)
	if err != nil {
		return err
	}

	// Crear tabla para almacenar el historial diario del valor del vault
	createNavSnapshotsTableSQL := `
	CREATE TABLE IF NOT EXISTS nav_snapshots (
		id TEXT PRIMARY KEY,
		date DATETIME NOT NULL,
		nav_usd REAL NOT NULL,
		nav_eth REAL NOT NULL,
		account_value REAL NOT NULL,
		unrealized_pnl REAL NOT NULL,
		max_value REAL DEFAULT 0,
		min_value REAL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	_, err = db.Exec(createNavSnapshotsTableSQL)
	if err != nil {
		return err
	}

	// Crear índice para búsqueda rápida por fecha
	createNavSnapshotsIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_nav_snapshots_date
	ON nav_snapshots(date);`

	_, err = db.Exec(createNavSnapshotsIndexSQL)
	if err != nil {
		return err
	}

	// Crear tabla de mensajes del formulario de contacto
	createContactMessagesTableSQL := `
	CREATE TABLE IF NOT EXISTS contact_messages (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		message TEXT NOT NULL,
		relayed INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	_, err = db.Exec(createContactMessagesTableSQL)
	if err != nil {
		return err
	}

	// Ejecutar migraciones para actualizar el esquema
	return RunMigrations(db)
}
