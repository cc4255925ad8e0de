package services

import (
	"context"

	"social-app/internal/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SocialGate answers the relationship questions other services gate
// on. It owns no state of its own, only reads.
type SocialGate struct {
	friendships repositories.FriendshipRepository
	chats       repositories.ChatRepository
}

func NewSocialGate(friendships repositories.FriendshipRepository, chats repositories.ChatRepository) *SocialGate {
	return &SocialGate{friendships: friendships, chats: chats}
}

func (g *SocialGate) IsSelf(userA, userB primitive.ObjectID) bool {
	return userA == userB
}

// HasPendingRequest is directional: it reports whether requesterID has
// an open request toward receiverID, not the reverse.
func (g *SocialGate) HasPendingRequest(ctx context.Context, requesterID, receiverID primitive.ObjectID) (bool, error) {
	return g.friendships.HasPendingRequest(ctx, requesterID, receiverID)
}

func (g *SocialGate) AreFriends(ctx context.Context, userA, userB primitive.ObjectID) (bool, error) {
	return g.friendships.AreFriends(ctx, userA, userB)
}

func (g *SocialGate) IsRoomMember(ctx context.Context, roomID, userID primitive.ObjectID) (bool, error) {
	room, err := g.chats.GetRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	return room.HasMember(userID), nil
}

func (g *SocialGate) IsRoomAdmin(ctx context.Context, roomID, userID primitive.ObjectID) (bool, error) {
	room, err := g.chats.GetRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	return room.AdminID == userID, nil
}
