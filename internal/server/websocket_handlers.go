package server

import (
	"encoding/json"
	"log"

	"pulseboard/internal/middleware"
	"pulseboard/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler upgrades connections and registers them with the hub.
// Connections are anonymous; the only client-to-server message is the
// ephemeral typing relay.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		client, err := s.hub.Register(conn)
		if err != nil {
			log.Printf("websocket register failed: %v", err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		client.IncomingHandler = func(c *notifications.Client, message []byte) {
			var incoming struct {
				Type     string `json:"type"`
				Nickname string `json:"nickname"`
			}
			if err := json.Unmarshal(message, &incoming); err != nil {
				return
			}

			// Typing is relayed to everyone else and never persisted.
			if incoming.Type == "typing" {
				event, err := json.Marshal(map[string]interface{}{
					"type":    EventUserTyping,
					"payload": map[string]string{"nickname": incoming.Nickname},
				})
				if err != nil {
					return
				}
				s.hub.BroadcastExcept(c, string(event))
			}
		}

		// Start write pump in a goroutine
		go client.WritePump()

		// Read pump runs in the main handler goroutine (blocking)
		client.ReadPump()
	})
}
