package kafka

import (
	"context"
	"encoding/json"

	"social-app/internal/models"
	"social-app/internal/websocket"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// EventConsumer consumes realtime events from Kafka and pushes them to
// connected WebSocket clients.
type EventConsumer struct {
	reader *kafka.Reader
	hub    *websocket.Hub
}

func NewEventConsumer(brokers []string, topic string, groupID string, hub *websocket.Hub) *EventConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &EventConsumer{
		reader: r,
		hub:    hub,
	}
}

// Start consuming events until the context is cancelled.
func (c *EventConsumer) Start(ctx context.Context) {
	log.Info().Str("topic", c.reader.Config().Topic).Msg("starting Kafka event consumer")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("topic", c.reader.Config().Topic).Msg("Kafka event consumer stopped")
			return
		default:
			m, err := c.reader.FetchMessage(ctx)
			if err != nil {
				log.Error().Err(err).Msg("error fetching message from Kafka")
				continue
			}

			var event models.RealtimeEvent
			if err := json.Unmarshal(m.Value, &event); err != nil {
				log.Error().
					Err(err).
					Str("topic", m.Topic).
					Int("partition", m.Partition).
					Int64("offset", m.Offset).
					Msg("malformed event received from Kafka")
				// Commit anyway so a bad message is not reprocessed forever.
				c.reader.CommitMessages(ctx, m)
				continue
			}

			select {
			case c.hub.Events <- event:
			default:
				// The feed document is the source of truth; a dropped
				// realtime push only delays delivery to next fetch.
				log.Warn().
					Str("recipient_id", event.RecipientID.Hex()).
					Msg("hub events channel full, dropping realtime event")
			}

			if err := c.reader.CommitMessages(ctx, m); err != nil {
				log.Error().Err(err).Msg("error committing message to Kafka")
			}
		}
	}
}

func (c *EventConsumer) Close() error {
	return c.reader.Close()
}
