package services

import (
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const hyperliquidWSURL = "wss://api.hyperliquid.xyz/ws"

const (
	wsReconnectDelay    = 5 * time.Second
	wsMaxReconnects     = 10
	wsHeartbeatInterval = 20 * time.Second
	wsReadTimeout       = 60 * time.Second
)

// MidFeed mantiene caliente el caché de precios entre sondeos REST con los
// mids en vivo de Hyperliquid. Los mids pasan la misma validación de rango
// que la cadena de fallback antes de tocar el caché; la cadena REST sigue
// siendo la autoridad para la variación de 24h.
type MidFeed struct {
	url     string
	prices  *PriceService
	symbols map[string]bool

	mutex      sync.Mutex
	conn       *websocket.Conn
	isRunning  bool
	stopChan   chan struct{}
	reconnects int
}

func NewMidFeed(prices *PriceService, symbols []string) *MidFeed {
	set := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		set[s] = true
	}

	return &MidFeed{
		url:      hyperliquidWSURL,
		prices:   prices,
		symbols:  set,
		stopChan: make(chan struct{}),
	}
}

// NewMidFeedWithURL permite apuntar a otro servidor (usado en tests)
func NewMidFeedWithURL(url string, prices *PriceService, symbols []string) *MidFeed {
	feed := NewMidFeed(prices, symbols)
	feed.url = url
	return feed
}

type wsSubscription struct {
	Method       string            `json:"method"`
	Subscription map[string]string `json:"subscription"`
}

type wsAllMids struct {
	Channel string `json:"channel"`
	Data    struct {
		Mids map[string]string `json:"mids"`
	} `json:"data"`
}

// Start abre la conexión y lanza los bucles de lectura y heartbeat
func (f *MidFeed) Start() {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.isRunning {
		return
	}

	f.isRunning = true
	f.stopChan = make(chan struct{})

	go f.run()
	log.Printf("Feed de mids en vivo iniciado")
}

// Stop cierra la conexión y detiene los bucles
func (f *MidFeed) Stop() {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if !f.isRunning {
		return
	}

	f.isRunning = false
	close(f.stopChan)

	if f.conn != nil {
		f.conn.Close()
		f.conn = nil
	}

	log.Printf("Feed de mids en vivo detenido")
}

func (f *MidFeed) run() {
	for {
		select {
		case <-f.stopChan:
			return
		default:
		}

		if err := f.connect(); err != nil {
			f.mutex.Lock()
			f.reconnects++
			attempts := f.reconnects
			f.mutex.Unlock()

			if attempts >= wsMaxReconnects {
				log.Printf("Feed de mids: alcanzado el máximo de reconexiones (%d), abandonando", wsMaxReconnects)
				return
			}

			log.Printf("Feed de mids: error de conexión (intento %d/%d): %v", attempts, wsMaxReconnects, err)

			select {
			case <-time.After(wsReconnectDelay):
			case <-f.stopChan:
				return
			}
			continue
		}

		f.mutex.Lock()
		f.reconnects = 0
		f.mutex.Unlock()

		f.readLoop()
	}
}

func (f *MidFeed) connect() error {
	dialer := &websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	conn, _, err := dialer.Dial(f.url, nil)
	if err != nil {
		return err
	}

	sub := wsSubscription{
		Method:       "subscribe",
		Subscription: map[string]string{"type": "allMids"},
	}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return err
	}

	f.mutex.Lock()
	f.conn = conn
	f.mutex.Unlock()

	return nil
}

// readLoop lee mensajes hasta que la conexión falla o se detiene el feed
func (f *MidFeed) readLoop() {
	heartbeat := time.NewTicker(wsHeartbeatInterval)
	defer heartbeat.Stop()

	done := make(chan struct{})
	defer close(done)

	// Heartbeat en paralelo al bucle de lectura
	go func() {
		for {
			select {
			case <-heartbeat.C:
				f.mutex.Lock()
				conn := f.conn
				f.mutex.Unlock()
				if conn != nil {
					if err := conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
						log.Printf("Feed de mids: error al enviar ping: %v", err)
					}
				}
			case <-done:
				return
			case <-f.stopChan:
				return
			}
		}
	}()

	for {
		select {
		case <-f.stopChan:
			return
		default:
		}

		f.mutex.Lock()
		conn := f.conn
		f.mutex.Unlock()

		if conn == nil {
			return
		}

		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("Feed de mids: error de lectura, reconectando: %v", err)
			f.mutex.Lock()
			if f.conn != nil {
				f.conn.Close()
				f.conn = nil
			}
			f.mutex.Unlock()
			return
		}

		f.processMessage(data)
	}
}

func (f *MidFeed) processMessage(data []byte) {
	var msg wsAllMids
	if err := json.Unmarshal(data, &msg); err != nil || msg.Channel != "allMids" {
		return
	}

	for symbol, priceStr := range msg.Data.Mids {
		if !f.symbols[symbol] {
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			continue
		}

		// La validación de rango ocurre dentro de SetLiveMid
		f.prices.SetLiveMid(symbol, price)
	}
}
