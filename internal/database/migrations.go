package database

import (
	"database/sql"
	"log"
)

// RunMigrations ejecuta las migraciones necesarias para actualizar el esquema de la base de datos
func RunMigrations(db *sql.DB) error {
	log.Println("Ejecutando migraciones de la base de datos...")

	// Migración para añadir la columna timestamp a la tabla tracked_positions
	addPositionTimestampSQL := `
	ALTER TABLE tracked_positions ADD COLUMN position_time DATETIME;
	`

	_, err := db.Exec(addPositionTimestampSQL)
	if err != nil {
		// No retornamos error porque SQLite puede dar error si la columna ya existe
		// y queremos que la migración continúe
		log.Printf("Migración position_time omitida: %v", err)
	} else {
		log.Println("Columna position_time añadida correctamente")
	}

	return nil
}
