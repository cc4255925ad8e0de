package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatMessage struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	SenderID primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	Body     string             `bson:"body" json:"body"`
	SentAt   time.Time          `bson:"sent_at" json:"sent_at"`
}

// Chat is a direct two-party conversation. At most one chat exists per
// unordered pair of members.
type Chat struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Members   []primitive.ObjectID `bson:"members" json:"members"`
	Messages  []ChatMessage        `bson:"messages" json:"messages"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}

// HasMember reports membership by identity.
func (c *Chat) HasMember(userID primitive.ObjectID) bool {
	for _, id := range c.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// Chatroom is a titled multi-party room with a single admin. Only the
// admin may add or remove members.
type Chatroom struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title     string               `bson:"title" json:"title"`
	AdminID   primitive.ObjectID   `bson:"admin_id" json:"admin_id"`
	Members   []primitive.ObjectID `bson:"members" json:"members"`
	Messages  []ChatMessage        `bson:"messages" json:"messages"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}

func (r *Chatroom) HasMember(userID primitive.ObjectID) bool {
	for _, id := range r.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// DTOs

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

type CreateChatroomRequest struct {
	Title string `json:"title" binding:"required"`
}

type ChatroomMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
