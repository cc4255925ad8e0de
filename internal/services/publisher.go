package services

import (
	"context"

	"social-app/internal/models"

	"github.com/rs/zerolog/log"
)

// EventPublisher pushes realtime events to the delivery pipeline.
// Satisfied by the Kafka producer in production and by fakes in tests.
type EventPublisher interface {
	Publish(ctx context.Context, event models.RealtimeEvent) error
}

// publishEvent is best-effort: the feed document already holds the
// durable state, so a failed push is logged and swallowed.
func publishEvent(ctx context.Context, publisher EventPublisher, event models.RealtimeEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Error().
			Err(err).
			Str("type", event.Type).
			Str("recipient_id", event.RecipientID.Hex()).
			Msg("failed to publish realtime event")
	}
}
