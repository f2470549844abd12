package server

import (
	"context"
	"encoding/json"
	"net/http"

	"price-streamer/src/models"
	"price-streamer/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// runHub is the main hub loop. It owns the client set: registrations,
// deregistrations and fan-out all pass through here, so no two of them can
// race on a client's send channel.
func (s *StreamServer) runHub(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.closeAllClients()
			return

		case client := <-s.register:
			s.clientsMu.Lock()
			s.clients[client] = struct{}{}
			s.clientsMu.Unlock()
			s.Logger.Info("WS client %s connected. Total: %d", client.id, s.ClientCount())

		case client := <-s.unregister:
			s.dropClient(client)

		case message := <-s.broadcast:
			// Fan out to all clients. A client whose buffer is full is
			// dropped rather than allowed to stall the hub.
			s.clientsMu.Lock()
			for client := range s.clients {
				select {
				case client.send <- message:
				default:
					delete(s.clients, client)
					close(client.send)
					s.Logger.Warning("WS client %s too slow, dropped", client.id)
				}
			}
			s.clientsMu.Unlock()
		}
	}
}

// -----------------------------------------------------------------------------

func (s *StreamServer) dropClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		close(client.send)
	}
}

// -----------------------------------------------------------------------------

func (s *StreamServer) closeAllClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for client := range s.clients {
		delete(s.clients, client)
		close(client.send)
	}
}

// -----------------------------------------------------------------------------
// Candle Sink Implementation
// -----------------------------------------------------------------------------

// broadcastCandle is the wire shape sent to subscribers. The bucket start is
// presentation-formatted; raw values stay available over the REST surface.
type broadcastCandle struct {
	Symbol    string  `json:"symbol"`
	Timestamp string  `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
}

// -----------------------------------------------------------------------------

// PublishCandle serializes the candle once and queues it for fan-out.
// Implements interfaces.ICandleSink; delivery failures never reach callers.
func (s *StreamServer) PublishCandle(candle models.MCandle) {
	if s.ClientCount() == 0 {
		return
	}

	message, err := json.Marshal(broadcastCandle{
		Symbol:    candle.Symbol,
		Timestamp: utils.FormatTimestamp(candle.Timestamp),
		Open:      candle.Open,
		High:      candle.High,
		Low:       candle.Low,
		Close:     candle.Close,
	})
	if err != nil {
		s.Logger.Error("Failed to serialize candle: %v", err)
		return
	}

	s.broadcast <- message
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *StreamServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the hub loop
		send: make(chan []byte, 256),
	}

	s.register <- client

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}
