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

// NotificationRepository stores one feed document per user, keyed by
// the user id. Entries are keyed by (original_id, alert_type): a new
// event for the same key replaces the old entry at the front of the
// list. The unread counter moves independently of entry replacement,
// one step per delivered event, and never goes below zero.
type NotificationRepository interface {
	Feed(ctx context.Context, userID primitive.ObjectID) (*models.NotificationFeed, error)
	ReplaceEntry(ctx context.Context, userID primitive.ObjectID, entry models.NotificationEntry) error
	RemoveEntry(ctx context.Context, userID, originalID primitive.ObjectID, alertType models.AlertType) (bool, error)
	IncCount(ctx context.Context, userID primitive.ObjectID, delta int64) error
	ResetCount(ctx context.Context, userID primitive.ObjectID) error
	Clear(ctx context.Context, userID primitive.ObjectID, alertType models.AlertType) error
	ReplaceContent(ctx context.Context, userID primitive.ObjectID, content []models.NotificationEntry) error
}

type notificationRepositoryMongo struct {
	db *mongo.Database
}

func NewNotificationRepository(db *mongo.Database) NotificationRepository {
	return &notificationRepositoryMongo{db: db}
}

func (r *notificationRepositoryMongo) collection() *mongo.Collection {
	return r.db.Collection("notification_feeds")
}

func (r *notificationRepositoryMongo) Feed(ctx context.Context, userID primitive.ObjectID) (*models.NotificationFeed, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var feed models.NotificationFeed
	err := r.collection().FindOne(ctx, bson.M{"_id": userID}).Decode(&feed)
	if err == mongo.ErrNoDocuments {
		return &models.NotificationFeed{RecipientID: userID, Content: []models.NotificationEntry{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if feed.Content == nil {
		feed.Content = []models.NotificationEntry{}
	}
	return &feed, nil
}

// ReplaceEntry drops any existing entry with the same source key, then
// pushes the fresh one to the front of the list. Two writes, but each
// is idempotent for the key, so a racing pair converges on one entry.
func (r *notificationRepositoryMongo) ReplaceEntry(ctx context.Context, userID primitive.ObjectID, entry models.NotificationEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	coll := r.collection()
	_, err := coll.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"content": bson.M{
			"payload.original_id": entry.Payload.OriginalID,
			"payload.alert_type":  entry.Payload.AlertType,
		}}},
	)
	if err != nil {
		return err
	}

	_, err = coll.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"content": bson.M{
				"$each":     []models.NotificationEntry{entry},
				"$position": 0,
			}},
			"$setOnInsert": bson.M{"count": int64(0)},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *notificationRepositoryMongo) RemoveEntry(ctx context.Context, userID, originalID primitive.ObjectID, alertType models.AlertType) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection().UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"content": bson.M{
			"payload.original_id": originalID,
			"payload.alert_type":  alertType,
		}}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (r *notificationRepositoryMongo) IncCount(ctx context.Context, userID primitive.ObjectID, delta int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	coll := r.collection()
	if delta >= 0 {
		_, err := coll.UpdateOne(
			ctx,
			bson.M{"_id": userID},
			bson.M{"$inc": bson.M{"count": delta}},
			options.Update().SetUpsert(true),
		)
		return err
	}

	// Decrements only apply while the counter is still positive. A
	// miss means a concurrent clear already zeroed it.
	result, err := coll.UpdateOne(
		ctx,
		bson.M{"_id": userID, "count": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"count": delta}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		log.Warn().
			Str("user_id", userID.Hex()).
			Int64("delta", delta).
			Msg("notification count underflow clamped at zero")
	}
	return nil
}

func (r *notificationRepositoryMongo) ResetCount(ctx context.Context, userID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.collection().UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"count": int64(0)}},
	)
	return err
}

// Clear removes entries of one alert type, or everything when
// alertType is empty. A full clear also resets the unread counter.
func (r *notificationRepositoryMongo) Clear(ctx context.Context, userID primitive.ObjectID, alertType models.AlertType) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if alertType == "" {
		_, err := r.collection().UpdateOne(
			ctx,
			bson.M{"_id": userID},
			bson.M{"$set": bson.M{"content": []models.NotificationEntry{}, "count": int64(0)}},
		)
		return err
	}

	_, err := r.collection().UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"content": bson.M{"payload.alert_type": alertType}}},
	)
	return err
}

func (r *notificationRepositoryMongo) ReplaceContent(ctx context.Context, userID primitive.ObjectID, content []models.NotificationEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if content == nil {
		content = []models.NotificationEntry{}
	}
	_, err := r.collection().UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"content": content}},
	)
	return err
}
