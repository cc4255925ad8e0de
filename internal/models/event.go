package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RealtimeEvent is the envelope carried over Kafka and fanned out to
// connected WebSocket clients of the recipient.
type RealtimeEvent struct {
	Type        string             `json:"type"`
	RecipientID primitive.ObjectID `json:"recipient_id"`
	Data        json.RawMessage    `json:"data,omitempty"`
}

const (
	EventNotification  = "notification"
	EventChatMessage   = "chat_message"
	EventFriendRequest = "friend_request"
)
