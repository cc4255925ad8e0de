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

// FriendshipRepository tracks the request lifecycle between a pair of
// users. At most one document exists per unordered pair; a declined or
// cancelled request is deleted, so the pair can start over.
type FriendshipRepository interface {
	CreateRequest(ctx context.Context, requesterID, receiverID primitive.ObjectID) (*models.Friendship, error)
	HasPendingRequest(ctx context.Context, requesterID, receiverID primitive.ObjectID) (bool, error)
	AcceptRequest(ctx context.Context, requesterID, receiverID primitive.ObjectID) error
	DeletePending(ctx context.Context, requesterID, receiverID primitive.ObjectID) error
	AreFriends(ctx context.Context, userA, userB primitive.ObjectID) (bool, error)
	Unfriend(ctx context.Context, userA, userB primitive.ObjectID) error
	ListPending(ctx context.Context, receiverID primitive.ObjectID) ([]models.Friendship, error)
}

type friendshipRepositoryMongo struct {
	db *mongo.Database
}

func NewFriendshipRepository(db *mongo.Database) FriendshipRepository {
	_, err := db.Collection("friendships").Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "requester_id", Value: 1}, {Key: "receiver_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "status", Value: 1}},
		},
	})
	if err != nil {
		panic("Failed to create friendship indexes: " + err.Error())
	}

	return &friendshipRepositoryMongo{db: db}
}

// pairKey normalizes the pair so the unique index closes racing sends
// from either direction, same as direct chats sort their member pair.
func pairKey(userA, userB primitive.ObjectID) string {
	a, b := userA.Hex(), userB.Hex()
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// pairFilter matches the document regardless of who initiated.
func pairFilter(userA, userB primitive.ObjectID) bson.M {
	return bson.M{"pair_key": pairKey(userA, userB)}
}

func (r *friendshipRepositoryMongo) CreateRequest(ctx context.Context, requesterID, receiverID primitive.ObjectID) (*models.Friendship, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if requesterID == receiverID {
		return nil, ErrCannotFriendSelf
	}

	coll := r.db.Collection("friendships")

	var existing models.Friendship
	err := coll.FindOne(ctx, pairFilter(requesterID, receiverID)).Decode(&existing)
	if err == nil {
		if existing.Status == models.FriendshipStatusAccepted {
			return nil, ErrAlreadyFriends
		}
		return nil, ErrFriendRequestExists
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	friendship := &models.Friendship{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		PairKey:     pairKey(requesterID, receiverID),
		Status:      models.FriendshipStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	result, err := coll.InsertOne(ctx, friendship)
	if err != nil {
		// The unique index closes the check-then-insert race.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrFriendRequestExists
		}
		return nil, err
	}
	friendship.ID = result.InsertedID.(primitive.ObjectID)
	return friendship, nil
}

func (r *friendshipRepositoryMongo) HasPendingRequest(ctx context.Context, requesterID, receiverID primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.db.Collection("friendships").CountDocuments(ctx, bson.M{
		"requester_id": requesterID,
		"receiver_id":  receiverID,
		"status":       models.FriendshipStatusPending,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *friendshipRepositoryMongo) AcceptRequest(ctx context.Context, requesterID, receiverID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.db.Collection("friendships").UpdateOne(
		ctx,
		bson.M{
			"requester_id": requesterID,
			"receiver_id":  receiverID,
			"status":       models.FriendshipStatusPending,
		},
		bson.M{"$set": bson.M{
			"status":     models.FriendshipStatusAccepted,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrFriendRequestNotFound
	}
	return nil
}

func (r *friendshipRepositoryMongo) DeletePending(ctx context.Context, requesterID, receiverID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.db.Collection("friendships").DeleteOne(ctx, bson.M{
		"requester_id": requesterID,
		"receiver_id":  receiverID,
		"status":       models.FriendshipStatusPending,
	})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrFriendRequestNotFound
	}
	return nil
}

func (r *friendshipRepositoryMongo) AreFriends(ctx context.Context, userA, userB primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := pairFilter(userA, userB)
	filter["status"] = models.FriendshipStatusAccepted
	count, err := r.db.Collection("friendships").CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *friendshipRepositoryMongo) Unfriend(ctx context.Context, userA, userB primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := pairFilter(userA, userB)
	filter["status"] = models.FriendshipStatusAccepted
	result, err := r.db.Collection("friendships").DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFriends
	}
	return nil
}

func (r *friendshipRepositoryMongo) ListPending(ctx context.Context, receiverID primitive.ObjectID) ([]models.Friendship, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.db.Collection("friendships").Find(
		ctx,
		bson.M{"receiver_id": receiverID, "status": models.FriendshipStatusPending},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []models.Friendship
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}
