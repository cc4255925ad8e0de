package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"social-app/internal/models"
	"social-app/internal/repositories"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrChatNotFound       = repositories.ErrChatNotFound
	ErrChatroomNotFound   = repositories.ErrChatroomNotFound
	ErrChatroomExists     = repositories.ErrChatroomExists
	ErrAlreadyChatMember  = repositories.ErrAlreadyChatMember
	ErrChatMemberNotFound = repositories.ErrChatMemberNotFound
)

// ChatService covers direct chats and chatrooms. Every delivered
// message bumps each recipient's inbox counter and moves the
// conversation to the front of their inbox room list.
type ChatService struct {
	chats     repositories.ChatRepository
	users     repositories.UserRepository
	gate      *SocialGate
	publisher EventPublisher
}

func NewChatService(
	chats repositories.ChatRepository,
	users repositories.UserRepository,
	gate *SocialGate,
	publisher EventPublisher,
) *ChatService {
	return &ChatService{
		chats:     chats,
		users:     users,
		gate:      gate,
		publisher: publisher,
	}
}

// SendDirectMessage lazily creates the chat on first contact. Only
// friends can message each other.
func (s *ChatService) SendDirectMessage(ctx context.Context, senderID, recipientID primitive.ObjectID, body string) (*models.Chat, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyContent
	}
	if s.gate.IsSelf(senderID, recipientID) {
		return nil, ErrNotAuthorized
	}
	friends, err := s.gate.AreFriends(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, repositories.ErrNotFriends
	}

	chat, err := s.chats.GetOrCreateDirectChat(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}

	message := models.ChatMessage{
		ID:       primitive.NewObjectID(),
		SenderID: senderID,
		Body:     body,
		SentAt:   time.Now(),
	}
	if err := s.chats.AppendChatMessage(ctx, chat.ID, message); err != nil {
		return nil, err
	}
	chat.Messages = append(chat.Messages, message)

	s.deliver(ctx, recipientID, chat.ID, message)
	return chat, nil
}

func (s *ChatService) GetChat(ctx context.Context, userID, chatID primitive.ObjectID) (*models.Chat, error) {
	chat, err := s.chats.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasMember(userID) {
		return nil, ErrNotAuthorized
	}
	return chat, nil
}

// Chatrooms

func (s *ChatService) CreateRoom(ctx context.Context, adminID primitive.ObjectID, title string) (*models.Chatroom, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyContent
	}
	room := &models.Chatroom{
		Title:   title,
		AdminID: adminID,
		Members: []primitive.ObjectID{adminID},
	}
	return s.chats.CreateRoom(ctx, room)
}

func (s *ChatService) GetRoom(ctx context.Context, userID, roomID primitive.ObjectID) (*models.Chatroom, error) {
	room, err := s.chats.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(userID) {
		return nil, ErrNotAuthorized
	}
	return room, nil
}

func (s *ChatService) AddRoomMember(ctx context.Context, actorID, roomID, userID primitive.ObjectID) error {
	admin, err := s.gate.IsRoomAdmin(ctx, roomID, actorID)
	if err != nil {
		return err
	}
	if !admin {
		return ErrNotAuthorized
	}
	if _, err := s.users.FindUserByID(ctx, userID); err != nil {
		return err
	}
	return s.chats.AddRoomMember(ctx, roomID, userID)
}

func (s *ChatService) RemoveRoomMember(ctx context.Context, actorID, roomID, userID primitive.ObjectID) error {
	admin, err := s.gate.IsRoomAdmin(ctx, roomID, actorID)
	if err != nil {
		return err
	}
	if !admin {
		return ErrNotAuthorized
	}
	if userID == actorID {
		// The admin leaves through LeaveRoom, not self-removal.
		return ErrNotAuthorized
	}

	remaining, err := s.chats.RemoveRoomMember(ctx, roomID, userID)
	if err != nil {
		return err
	}
	s.forgetRoom(ctx, userID, roomID)
	if remaining == 0 {
		return s.chats.DeleteRoom(ctx, roomID)
	}
	return nil
}

// LeaveRoom removes the caller. An emptied room is deleted.
func (s *ChatService) LeaveRoom(ctx context.Context, userID, roomID primitive.ObjectID) error {
	remaining, err := s.chats.RemoveRoomMember(ctx, roomID, userID)
	if err != nil {
		return err
	}
	s.forgetRoom(ctx, userID, roomID)
	if remaining == 0 {
		return s.chats.DeleteRoom(ctx, roomID)
	}
	return nil
}

func (s *ChatService) SendRoomMessage(ctx context.Context, senderID, roomID primitive.ObjectID, body string) (*models.Chatroom, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyContent
	}

	room, err := s.chats.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(senderID) {
		return nil, ErrNotAuthorized
	}

	message := models.ChatMessage{
		ID:       primitive.NewObjectID(),
		SenderID: senderID,
		Body:     body,
		SentAt:   time.Now(),
	}
	if err := s.chats.AppendRoomMessage(ctx, roomID, message); err != nil {
		return nil, err
	}
	room.Messages = append(room.Messages, message)

	for _, memberID := range room.Members {
		if memberID == senderID {
			continue
		}
		s.deliver(ctx, memberID, roomID, message)
	}
	return room, nil
}

// Inbox

func (s *ChatService) UnreadCount(ctx context.Context, userID primitive.ObjectID) (*models.UnreadCountResponse, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.UnreadCountResponse{Count: user.Inbox.Count}, nil
}

func (s *ChatService) MarkInboxRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.users.ResetInboxCount(ctx, userID)
}

// deliver updates one recipient's inbox and pushes the realtime event.
// Inbox bookkeeping failures are logged only; the message itself is
// already persisted in the conversation.
func (s *ChatService) deliver(ctx context.Context, recipientID, conversationID primitive.ObjectID, message models.ChatMessage) {
	if err := s.users.IncInboxCount(ctx, recipientID); err != nil {
		log.Error().Err(err).Str("user_id", recipientID.Hex()).Msg("failed to bump inbox count")
	}
	if err := s.users.TouchInboxRoom(ctx, recipientID, conversationID); err != nil {
		log.Error().Err(err).Str("user_id", recipientID.Hex()).Msg("failed to touch inbox room")
	}

	data, err := json.Marshal(message)
	if err != nil {
		return
	}
	publishEvent(ctx, s.publisher, models.RealtimeEvent{
		Type:        models.EventChatMessage,
		RecipientID: recipientID,
		Data:        data,
	})
}

func (s *ChatService) forgetRoom(ctx context.Context, userID, roomID primitive.ObjectID) {
	if err := s.users.RemoveInboxRoom(ctx, userID, roomID); err != nil {
		log.Error().Err(err).Str("user_id", userID.Hex()).Msg("failed to drop inbox room")
	}
}
