package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// ServeWs upgrades the connection and attaches the client to the hub.
// The caller has already authenticated the request; userID comes from
// the verified token.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, userID string) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	if userID == "" {
		conn.Close()
		return
	}

	client := &Client{
		UserID:   userID,
		Send:     make(chan []byte, 256),
		LastSeen: time.Now(),
	}

	hub.Register <- client

	// Read pump. Inbound frames are only used as liveness signals.
	go func() {
		defer func() {
			hub.Unregister <- client
			conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
			client.LastSeen = time.Now()
		}
	}()

	// Write pump
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer func() {
			ticker.Stop()
			conn.Close()
		}()

		for {
			select {
			case message, ok := <-client.Send:
				if !ok {
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()
}
