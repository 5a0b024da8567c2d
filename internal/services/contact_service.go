package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/VaultoHoldings/vaulto-api.git/internal/models"
)

// ContactRepositoryInterface persiste los mensajes del formulario de contacto
type ContactRepositoryInterface interface {
	SaveMessage(msg *models.ContactMessage) error
	MarkRelayed(id string) error
}

// ContactService guarda los mensajes del formulario y los reenvía al
// servicio de mailing configurado
type ContactService struct {
	repo     ContactRepositoryInterface
	relayURL string
	apiKey   string
}

func NewContactService(repo ContactRepositoryInterface) *ContactService {
	return &ContactService{
		repo:     repo,
		relayURL: os.Getenv("MAILING_LIST_URL"),
		apiKey:   os.Getenv("MAILING_LIST_API_KEY"),
	}
}

// NewContactServiceWithRelay permite fijar el endpoint de reenvío (usado en tests)
func NewContactServiceWithRelay(repo ContactRepositoryInterface, relayURL, apiKey string) *ContactService {
	return &ContactService{repo: repo, relayURL: relayURL, apiKey: apiKey}
}

// Submit guarda el mensaje localmente y lo reenvía al servicio de mailing.
// Si no hay servicio configurado, solo se registra el mensaje y se simula éxito.
func (s *ContactService) Submit(msg *models.ContactMessage) error {
	if err := s.repo.SaveMessage(msg); err != nil {
		return fmt.Errorf("error al guardar mensaje de contacto: %w", err)
	}

	// Si no hay configuración de mailing, solo registramos y simulamos éxito
	if s.relayURL == "" {
		log.Printf("Servicio de mailing no configurado. Mensaje de %s guardado localmente", msg.Email)
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"name":    msg.Name,
		"email":   msg.Email,
		"message": msg.Message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.relayURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Token "+s.apiKey)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		// El mensaje ya quedó guardado localmente; el reenvío fallido no es fatal
		log.Printf("Error al reenviar mensaje de contacto: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := s.repo.MarkRelayed(msg.ID); err != nil {
			log.Printf("Error al marcar mensaje como reenviado: %v", err)
		}
		msg.Relayed = true
	} else {
		log.Printf("El servicio de mailing respondió con estado %d para %s", resp.StatusCode, msg.Email)
	}

	return nil
}
