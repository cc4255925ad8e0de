package repositories

import (
	"context"
	"time"

	"social-app/internal/models"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository is the identity/user directory: display names and
// avatars for aggregation, friend sets, and the per-user unread chat
// counter.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
	SearchUsers(ctx context.Context, name string) ([]models.User, error)

	AddFriend(ctx context.Context, userID1, userID2 primitive.ObjectID) error
	RemoveFriend(ctx context.Context, userID1, userID2 primitive.ObjectID) error

	IncInboxCount(ctx context.Context, userID primitive.ObjectID) error
	ResetInboxCount(ctx context.Context, userID primitive.ObjectID) error
	TouchInboxRoom(ctx context.Context, userID, roomID primitive.ObjectID) error
	RemoveInboxRoom(ctx context.Context, userID, roomID primitive.ObjectID) error
}

type userRepositoryMongo struct {
	db *mongo.Database
}

func NewUserRepository(db *mongo.Database) UserRepository {
	_, err := db.Collection("users").Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "first_name", Value: 1}, {Key: "last_name", Value: 1}},
		},
	})
	if err != nil {
		panic("Failed to create user indexes: " + err.Error())
	}

	return &userRepositoryMongo{db: db}
}

func (r *userRepositoryMongo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	user.CreatedAt = time.Now()
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}
	result, err := r.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (r *userRepositoryMongo) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := r.db.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepositoryMongo) FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	users := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	cursor, err := r.db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []models.User
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}
	for _, u := range found {
		users[u.ID] = u
	}
	return users, nil
}

func (r *userRepositoryMongo) SearchUsers(ctx context.Context, name string) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"first_name": bson.M{"$regex": name, "$options": "i"}},
		{"last_name": bson.M{"$regex": name, "$options": "i"}},
	}}

	cursor, err := r.db.Collection("users").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AddFriend links both users inside a transaction so the friend sets
// never diverge. $addToSet keeps re-acceptance idempotent.
func (r *userRepositoryMongo) AddFriend(ctx context.Context, userID1, userID2 primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := r.db.Collection("users").UpdateOne(
			sessCtx,
			bson.M{"_id": userID1},
			bson.M{"$addToSet": bson.M{"friends": userID2}},
		); err != nil {
			return nil, err
		}

		_, err := r.db.Collection("users").UpdateOne(
			sessCtx,
			bson.M{"_id": userID2},
			bson.M{"$addToSet": bson.M{"friends": userID1}},
		)
		return nil, err
	})

	return err
}

func (r *userRepositoryMongo) RemoveFriend(ctx context.Context, userID1, userID2 primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := r.db.Collection("users").UpdateOne(
			sessCtx,
			bson.M{"_id": userID1},
			bson.M{"$pull": bson.M{"friends": userID2}},
		); err != nil {
			return nil, err
		}

		_, err := r.db.Collection("users").UpdateOne(
			sessCtx,
			bson.M{"_id": userID2},
			bson.M{"$pull": bson.M{"friends": userID1}},
		)
		return nil, err
	})

	return err
}

func (r *userRepositoryMongo) IncInboxCount(ctx context.Context, userID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.db.Collection("users").UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$inc": bson.M{"inbox.count": 1}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepositoryMongo) ResetInboxCount(ctx context.Context, userID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.db.Collection("users").UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"inbox.count": 0}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// TouchInboxRoom moves a room reference to the front of the user's
// inbox. Pull and push cannot target the same field in one update, so
// this is two writes; the second one alone decides visibility.
func (r *userRepositoryMongo) TouchInboxRoom(ctx context.Context, userID, roomID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.db.Collection("users").UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"inbox.rooms": roomID}},
	); err != nil {
		return err
	}

	result, err := r.db.Collection("users").UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"inbox.rooms": bson.M{"$each": []primitive.ObjectID{roomID}, "$position": 0}}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		log.Warn().Str("user_id", userID.Hex()).Msg("inbox touch on missing user")
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepositoryMongo) RemoveInboxRoom(ctx context.Context, userID, roomID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Collection("users").UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"inbox.rooms": roomID}},
	)
	return err
}
