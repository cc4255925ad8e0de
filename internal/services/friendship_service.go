package services

import (
	"context"
	"encoding/json"

	"social-app/internal/models"
	"social-app/internal/repositories"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrCannotFriendSelf      = repositories.ErrCannotFriendSelf
	ErrFriendRequestExists   = repositories.ErrFriendRequestExists
	ErrAlreadyFriends        = repositories.ErrAlreadyFriends
	ErrFriendRequestNotFound = repositories.ErrFriendRequestNotFound
	ErrNotFriends            = repositories.ErrNotFriends
)

// FriendshipService drives the request lifecycle. The friendship
// document is the source of truth; the users' friend arrays mirror it
// for cheap membership checks, and both sides get feed entries whose
// wording depends on which side they are.
type FriendshipService struct {
	friendships repositories.FriendshipRepository
	users       repositories.UserRepository
	notifs      repositories.NotificationRepository
	publisher   EventPublisher
}

func NewFriendshipService(
	friendships repositories.FriendshipRepository,
	users repositories.UserRepository,
	notifs repositories.NotificationRepository,
	publisher EventPublisher,
) *FriendshipService {
	return &FriendshipService{
		friendships: friendships,
		users:       users,
		notifs:      notifs,
		publisher:   publisher,
	}
}

func (s *FriendshipService) SendRequest(ctx context.Context, requesterID, receiverID primitive.ObjectID) (*models.Friendship, error) {
	requester, err := s.users.FindUserByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.users.FindUserByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}

	friendship, err := s.friendships.CreateRequest(ctx, requesterID, receiverID)
	if err != nil {
		return nil, err
	}

	s.pushEntry(ctx, receiverID, models.NotificationEntry{
		Payload: models.NotificationPayload{
			OriginalID: requesterID,
			AlertType:  models.AlertTypeFriendRequest,
			SourceID:   requesterID,
			ActorImage: requester.AvatarURL(),
		},
		Message: requester.FullName() + " sent you a friend request",
	}, models.EventFriendRequest)

	s.pushEntry(ctx, requesterID, models.NotificationEntry{
		Payload: models.NotificationPayload{
			OriginalID: receiverID,
			AlertType:  models.AlertTypeFriendRequest,
			SourceID:   receiverID,
			ActorImage: receiver.AvatarURL(),
		},
		Message: "You sent " + receiver.FullName() + " a friend request",
	}, models.EventFriendRequest)

	return friendship, nil
}

// AcceptRequest is called by the receiver of a pending request from
// requesterID. The pending entries on both sides are retired and
// replaced by accept entries.
func (s *FriendshipService) AcceptRequest(ctx context.Context, receiverID, requesterID primitive.ObjectID) error {
	if err := s.friendships.AcceptRequest(ctx, requesterID, receiverID); err != nil {
		return err
	}
	if err := s.users.AddFriend(ctx, requesterID, receiverID); err != nil {
		return err
	}

	s.retirePendingEntries(ctx, requesterID, receiverID)

	requester, err := s.users.FindUserByID(ctx, requesterID)
	if err != nil {
		return err
	}
	receiver, err := s.users.FindUserByID(ctx, receiverID)
	if err != nil {
		return err
	}

	s.pushEntry(ctx, receiverID, models.NotificationEntry{
		Payload: models.NotificationPayload{
			OriginalID: requesterID,
			AlertType:  models.AlertTypeFriendAccept,
			SourceID:   requesterID,
			ActorImage: requester.AvatarURL(),
		},
		Message: "You and " + requester.FullName() + " are now friends",
	}, models.EventFriendRequest)

	s.pushEntry(ctx, requesterID, models.NotificationEntry{
		Payload: models.NotificationPayload{
			OriginalID: receiverID,
			AlertType:  models.AlertTypeFriendAccept,
			SourceID:   receiverID,
			ActorImage: receiver.AvatarURL(),
		},
		Message: "You and " + receiver.FullName() + " are now friends",
	}, models.EventFriendRequest)

	return nil
}

// DeclineRequest deletes the pending document so the pair is back to
// having no relationship at all.
func (s *FriendshipService) DeclineRequest(ctx context.Context, receiverID, requesterID primitive.ObjectID) error {
	if err := s.friendships.DeletePending(ctx, requesterID, receiverID); err != nil {
		return err
	}
	s.retirePendingEntries(ctx, requesterID, receiverID)
	return nil
}

// CancelRequest is the requester withdrawing their own pending request.
func (s *FriendshipService) CancelRequest(ctx context.Context, requesterID, receiverID primitive.ObjectID) error {
	if err := s.friendships.DeletePending(ctx, requesterID, receiverID); err != nil {
		return err
	}
	s.retirePendingEntries(ctx, requesterID, receiverID)
	return nil
}

func (s *FriendshipService) RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	if err := s.friendships.Unfriend(ctx, userID, friendID); err != nil {
		return err
	}
	return s.users.RemoveFriend(ctx, userID, friendID)
}

func (s *FriendshipService) ListRequests(ctx context.Context, receiverID primitive.ObjectID) ([]models.Friendship, error) {
	return s.friendships.ListPending(ctx, receiverID)
}

func (s *FriendshipService) AreFriends(ctx context.Context, userA, userB primitive.ObjectID) (bool, error) {
	return s.friendships.AreFriends(ctx, userA, userB)
}

// retirePendingEntries drops the request entries from both feeds. The
// counters step back only when an entry was actually there, so a feed
// the user already cleared is not driven negative.
func (s *FriendshipService) retirePendingEntries(ctx context.Context, requesterID, receiverID primitive.ObjectID) {
	s.retireEntry(ctx, receiverID, requesterID)
	s.retireEntry(ctx, requesterID, receiverID)
}

func (s *FriendshipService) retireEntry(ctx context.Context, ownerID, originalID primitive.ObjectID) {
	removed, err := s.notifs.RemoveEntry(ctx, ownerID, originalID, models.AlertTypeFriendRequest)
	if err != nil {
		log.Error().Err(err).Str("user_id", ownerID.Hex()).Msg("failed to remove friend request entry")
		return
	}
	if !removed {
		return
	}
	if err := s.notifs.IncCount(ctx, ownerID, -1); err != nil {
		log.Error().Err(err).Str("user_id", ownerID.Hex()).Msg("failed to move notification count")
	}
}

func (s *FriendshipService) pushEntry(ctx context.Context, recipientID primitive.ObjectID, entry models.NotificationEntry, eventType string) {
	entry.ID = primitive.NewObjectID()
	if err := s.notifs.ReplaceEntry(ctx, recipientID, entry); err != nil {
		log.Error().Err(err).Str("recipient_id", recipientID.Hex()).Msg("failed to write notification entry")
		return
	}
	if err := s.notifs.IncCount(ctx, recipientID, 1); err != nil {
		log.Error().Err(err).Str("recipient_id", recipientID.Hex()).Msg("failed to move notification count")
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	publishEvent(ctx, s.publisher, models.RealtimeEvent{
		Type:        eventType,
		RecipientID: recipientID,
		Data:        data,
	})
}
