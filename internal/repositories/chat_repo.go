package repositories

import (
	"context"
	"time"

	"social-app/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository covers both direct chats (exactly two members, created
// lazily on first message) and named chatrooms with an admin.
type ChatRepository interface {
	GetOrCreateDirectChat(ctx context.Context, userA, userB primitive.ObjectID) (*models.Chat, error)
	GetChat(ctx context.Context, chatID primitive.ObjectID) (*models.Chat, error)
	AppendChatMessage(ctx context.Context, chatID primitive.ObjectID, message models.ChatMessage) error

	CreateRoom(ctx context.Context, room *models.Chatroom) (*models.Chatroom, error)
	GetRoom(ctx context.Context, roomID primitive.ObjectID) (*models.Chatroom, error)
	AddRoomMember(ctx context.Context, roomID, userID primitive.ObjectID) error
	RemoveRoomMember(ctx context.Context, roomID, userID primitive.ObjectID) (int64, error)
	AppendRoomMessage(ctx context.Context, roomID primitive.ObjectID, message models.ChatMessage) error
	DeleteRoom(ctx context.Context, roomID primitive.ObjectID) error
}

type chatRepositoryMongo struct {
	db *mongo.Database
}

func NewChatRepository(db *mongo.Database) ChatRepository {
	_, err := db.Collection("chats").Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "members", Value: 1}},
	})
	if err != nil {
		panic("Failed to create chat indexes: " + err.Error())
	}
	_, err = db.Collection("chatrooms").Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		panic("Failed to create chatroom indexes: " + err.Error())
	}

	return &chatRepositoryMongo{db: db}
}

func (r *chatRepositoryMongo) GetOrCreateDirectChat(ctx context.Context, userA, userB primitive.ObjectID) (*models.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	coll := r.db.Collection("chats")
	now := time.Now()

	// Member order is normalized so both directions find the same doc.
	members := []primitive.ObjectID{userA, userB}
	if userB.Hex() < userA.Hex() {
		members = []primitive.ObjectID{userB, userA}
	}

	var chat models.Chat
	err := coll.FindOneAndUpdate(
		ctx,
		bson.M{"members": members},
		bson.M{
			"$setOnInsert": bson.M{
				"members":    members,
				"messages":   []models.ChatMessage{},
				"created_at": now,
				"updated_at": now,
			},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&chat)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepositoryMongo) GetChat(ctx context.Context, chatID primitive.ObjectID) (*models.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var chat models.Chat
	err := r.db.Collection("chats").FindOne(ctx, bson.M{"_id": chatID}).Decode(&chat)
	if err == mongo.ErrNoDocuments {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepositoryMongo) AppendChatMessage(ctx context.Context, chatID primitive.ObjectID, message models.ChatMessage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.db.Collection("chats").UpdateOne(
		ctx,
		bson.M{"_id": chatID},
		bson.M{
			"$push": bson.M{"messages": message},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrChatNotFound
	}
	return nil
}

func (r *chatRepositoryMongo) CreateRoom(ctx context.Context, room *models.Chatroom) (*models.Chatroom, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now
	if room.Messages == nil {
		room.Messages = []models.ChatMessage{}
	}

	result, err := r.db.Collection("chatrooms").InsertOne(ctx, room)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrChatroomExists
		}
		return nil, err
	}
	room.ID = result.InsertedID.(primitive.ObjectID)
	return room, nil
}

func (r *chatRepositoryMongo) GetRoom(ctx context.Context, roomID primitive.ObjectID) (*models.Chatroom, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var room models.Chatroom
	err := r.db.Collection("chatrooms").FindOne(ctx, bson.M{"_id": roomID}).Decode(&room)
	if err == mongo.ErrNoDocuments {
		return nil, ErrChatroomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatRepositoryMongo) AddRoomMember(ctx context.Context, roomID, userID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.db.Collection("chatrooms").UpdateOne(
		ctx,
		bson.M{"_id": roomID, "members": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"members": userID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		exists, err := r.roomExists(ctx, roomID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrChatroomNotFound
		}
		return ErrAlreadyChatMember
	}
	return nil
}

// RemoveRoomMember returns the remaining member count so the service
// can delete an emptied room.
func (r *chatRepositoryMongo) RemoveRoomMember(ctx context.Context, roomID, userID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	coll := r.db.Collection("chatrooms")

	var room models.Chatroom
	err := coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": roomID, "members": userID},
		bson.M{
			"$pull": bson.M{"members": userID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&room)
	if err == mongo.ErrNoDocuments {
		exists, err := r.roomExists(ctx, roomID)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, ErrChatroomNotFound
		}
		return 0, ErrChatMemberNotFound
	}
	if err != nil {
		return 0, err
	}
	return int64(len(room.Members)), nil
}

func (r *chatRepositoryMongo) AppendRoomMessage(ctx context.Context, roomID primitive.ObjectID, message models.ChatMessage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.db.Collection("chatrooms").UpdateOne(
		ctx,
		bson.M{"_id": roomID},
		bson.M{
			"$push": bson.M{"messages": message},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrChatroomNotFound
	}
	return nil
}

func (r *chatRepositoryMongo) DeleteRoom(ctx context.Context, roomID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.db.Collection("chatrooms").DeleteOne(ctx, bson.M{"_id": roomID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrChatroomNotFound
	}
	return nil
}

func (r *chatRepositoryMongo) roomExists(ctx context.Context, roomID primitive.ObjectID) (bool, error) {
	count, err := r.db.Collection("chatrooms").CountDocuments(ctx, bson.M{"_id": roomID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
