package middleware

import (
	"net/http"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
	"github.com/gin-gonic/gin"
)

// SubmitContact recibe un mensaje del formulario de contacto, lo guarda
// y lo reenvía al servicio de mailing
func SubmitContact(c *gin.Context) {
	var msg models.ContactMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := contactService.Submit(&msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al enviar el mensaje"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Mensaje enviado exitosamente",
		"id":      msg.ID,
	})
}
