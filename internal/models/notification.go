package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AlertType classifies a notification entry.
type AlertType string

const (
	AlertTypeLike          AlertType = "like"
	AlertTypeComment       AlertType = "comment"
	AlertTypeFriendRequest AlertType = "friend_request"
	AlertTypeFriendAccept  AlertType = "friend_accept"
)

// NotificationPayload identifies the aggregate a feed entry stands
// for. (OriginalID, AlertType) is the de-duplication key: a recipient
// holds at most one entry per key.
type NotificationPayload struct {
	OriginalID primitive.ObjectID `bson:"original_id" json:"original_id"`
	AlertType  AlertType          `bson:"alert_type" json:"alert_type"`
	SourceID   primitive.ObjectID `bson:"source_id" json:"source_id"`
	ActorImage string             `bson:"actor_image,omitempty" json:"actor_image,omitempty"`
}

// NotificationEntry is one rendered aggregate notification. Message is
// the already-aggregated human-readable text; it is re-rendered and the
// entry moved to the front on every qualifying reaction.
type NotificationEntry struct {
	ID        primitive.ObjectID  `bson:"_id" json:"id"`
	Payload   NotificationPayload `bson:"payload" json:"payload"`
	Message   string              `bson:"message" json:"message"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}

// NotificationFeed is the per-recipient store: most-recent-first
// entries plus the unread counter. Count is maintained incrementally
// (one increment per reaction event, one decrement per retraction),
// never recomputed from Content; the two can drift when content is
// cleared by type, which is accepted.
type NotificationFeed struct {
	RecipientID primitive.ObjectID  `bson:"_id" json:"recipient_id"`
	Count       int64               `bson:"count" json:"count"`
	Content     []NotificationEntry `bson:"content" json:"content"`
}

type NotificationListResponse struct {
	Count         int64               `json:"count"`
	Notifications []NotificationEntry `json:"notifications"`
}

type ClearNotificationsRequest struct {
	// Scope "all" wipes the feed and resets the counter; an alert type
	// value drops only entries of that type and leaves the counter.
	Scope string `json:"scope" binding:"required"`
}
