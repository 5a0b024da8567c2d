package models

import "time"

// ContactMessage es un mensaje enviado desde el formulario de contacto del dashboard.
// Se guarda localmente antes de reenviarse al servicio de mailing.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" binding:"required"`
	Email     string    `json:"email" binding:"required,email"`
	Message   string    `json:"message" binding:"required"`
	Relayed   bool      `json:"relayed"`
	CreatedAt time.Time `json:"created_at"`
}
