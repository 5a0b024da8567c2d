package repository

import (
	"database/sql"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
)

// PriceRepository persiste el último precio válido conocido por símbolo.
// El servicio de precios lo usa como respaldo al arrancar (si el registro
// tiene menos de 24 horas).
type PriceRepository struct {
	db *sql.DB
}

func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// SaveQuote guarda o reemplaza el último precio válido de un símbolo
func (r *PriceRepository) SaveQuote(quote models.PriceQuote) error {
	query := `
		INSERT INTO price_quotes (symbol, price, change_percent, source, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			price = excluded.price,
			change_percent = excluded.change_percent,
			source = excluded.source,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query, quote.Symbol, quote.Current, quote.DailyChangePercent, quote.Source, quote.Timestamp)
	return err
}

// GetQuote obtiene el último precio persistido de un símbolo.
// Devuelve nil sin error si no existe registro.
func (r *PriceRepository) GetQuote(symbol string) (*models.PriceQuote, error) {
	query := `
		SELECT symbol, price, change_percent, source, updated_at
		FROM price_quotes
		WHERE symbol = ?
	`

	var quote models.PriceQuote
	err := r.db.QueryRow(query, symbol).Scan(
		&quote.Symbol, &quote.Current, &quote.DailyChangePercent, &quote.Source, &quote.Timestamp,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &quote, nil
}
