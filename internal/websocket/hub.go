package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"social-app/internal/models"
	"social-app/internal/redis"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var (
	wsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_total",
		Help: "Current number of active WebSocket connections",
	})
	wsEventsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "websocket_events_sent_total",
		Help: "Total number of events sent via WebSocket",
	}, []string{"type"})
)

func init() {
	prometheus.MustRegister(wsConnections, wsEventsSent)
}

type Client struct {
	UserID   string
	Send     chan []byte
	LastSeen time.Time
}

// Hub fans realtime events out to connected clients. Events arriving
// via Redis pub/sub cover clients connected to other instances.
type Hub struct {
	Clients     map[*Client]bool
	RedisClient *redis.ClusterClient
	Events      chan models.RealtimeEvent
	Register    chan *Client
	Unregister  chan *Client
	mu          sync.RWMutex
}

func NewHub(redisClient *redis.ClusterClient) *Hub {
	hub := &Hub{
		Events:      make(chan models.RealtimeEvent, 10000),
		Register:    make(chan *Client, 1000),
		Unregister:  make(chan *Client, 1000),
		Clients:     make(map[*Client]bool),
		RedisClient: redisClient,
	}

	go hub.subscribeToRedis()
	go hub.cleanupStaleConnections()

	return hub
}

func (h *Hub) cleanupStaleConnections() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.Lock()
		for client := range h.Clients {
			if time.Since(client.LastSeen) > 10*time.Minute {
				close(client.Send)
				delete(h.Clients, client)
				wsConnections.Dec()
			}
		}
		h.mu.Unlock()
	}
}

func (h *Hub) subscribeToRedis() {
	pubsub := h.RedisClient.Subscribe(context.Background(), "events")
	defer pubsub.Close()

	channel := pubsub.Channel()
	for msg := range channel {
		var event models.RealtimeEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Error().Err(err).Msg("error unmarshaling Redis event")
			continue
		}
		h.Events <- event
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client] = true
			wsConnections.Inc()
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Clients[client]; ok {
				close(client.Send)
				delete(h.Clients, client)
				wsConnections.Dec()
			}
			h.mu.Unlock()

		case event := <-h.Events:
			h.deliver(event)
		}
	}
}

func (h *Hub) deliver(event models.RealtimeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("error marshaling event")
		return
	}

	recipient := event.RecipientID.Hex()

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.Clients {
		if client.UserID != recipient {
			continue
		}
		select {
		case client.Send <- payload:
			client.LastSeen = time.Now()
			wsEventsSent.WithLabelValues(event.Type).Inc()
		default:
			close(client.Send)
			delete(h.Clients, client)
			wsConnections.Dec()
		}
	}
}
