package repository

import (
	"database/sql"
	"time"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
	"github.com/google/uuid"
)

// ContactRepository persiste los mensajes del formulario de contacto
type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// SaveMessage guarda un mensaje nuevo, asignándole ID y fecha si no los tiene
func (r *ContactRepository) SaveMessage(msg *models.ContactMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO contact_messages (id, name, email, message, relayed, created_at)
		VALUES (?, ?, ?, ?, 0, ?)
	`

	_, err := r.db.Exec(query, msg.ID, msg.Name, msg.Email, msg.Message, msg.CreatedAt)
	return err
}

// MarkRelayed marca un mensaje como reenviado al servicio de mailing
func (r *ContactRepository) MarkRelayed(id string) error {
	_, err := r.db.Exec(`UPDATE contact_messages SET relayed = 1 WHERE id = ?`, id)
	return err
}
