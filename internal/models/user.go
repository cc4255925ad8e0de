package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	FirstName string               `bson:"first_name" json:"first_name"`
	LastName  string               `bson:"last_name" json:"last_name"`
	Email     string               `bson:"email" json:"email"`
	Avatar    *ImageRef            `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Friends   []primitive.ObjectID `bson:"friends" json:"friends"`
	Inbox     Inbox                `bson:"inbox" json:"inbox"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}

// FullName is a computed projection, never stored.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) AvatarURL() string {
	if u.Avatar == nil {
		return ""
	}
	return u.Avatar.URL
}

// Inbox tracks unread chat activity for a user. Count moves
// independently of message storage: +1 per inbound message, reset only
// by an explicit clear.
type Inbox struct {
	Count int64                `bson:"count" json:"count"`
	Rooms []primitive.ObjectID `bson:"rooms" json:"rooms"`
}

type SafeUserResponse struct {
	ID        primitive.ObjectID   `json:"id"`
	FirstName string               `json:"first_name"`
	LastName  string               `json:"last_name"`
	FullName  string               `json:"full_name"`
	Email     string               `json:"email"`
	Avatar    *ImageRef            `json:"avatar,omitempty"`
	Friends   []primitive.ObjectID `json:"friends,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

func (u *User) ToSafeResponse() SafeUserResponse {
	return SafeUserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Email:     u.Email,
		Avatar:    u.Avatar,
		Friends:   u.Friends,
		CreatedAt: u.CreatedAt,
	}
}

type Friendship struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequesterID primitive.ObjectID `bson:"requester_id" json:"requester_id"`
	ReceiverID  primitive.ObjectID `bson:"receiver_id" json:"receiver_id"`
	// PairKey is the sorted-hex identity of the pair; both directions
	// map to the same value.
	PairKey string `bson:"pair_key" json:"-"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

const (
	FriendshipStatusPending  = "pending"
	FriendshipStatusAccepted = "accepted"
)
