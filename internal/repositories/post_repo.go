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

// PostRepository owns the nested post -> comments -> replies document.
// Every structural mutation is a single conditional update keyed on
// identity and a membership predicate, so two racing operations on the
// same actor resolve to whichever precondition held at its atomic
// check. Nothing here updates by array index.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	GetPostByID(ctx context.Context, postID primitive.ObjectID) (*models.Post, error)
	DeletePost(ctx context.Context, postID primitive.ObjectID) error
	PostExists(ctx context.Context, postID primitive.ObjectID) (bool, error)
	ListPosts(ctx context.Context, page, limit int64) ([]models.Post, int64, error)

	AddPostLike(ctx context.Context, postID, actorID primitive.ObjectID) error
	RemovePostLike(ctx context.Context, postID, actorID primitive.ObjectID) error

	AddComment(ctx context.Context, postID primitive.ObjectID, comment *models.Comment) error
	RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) error
	EditComment(ctx context.Context, postID, commentID primitive.ObjectID, content string) error
	AddCommentLike(ctx context.Context, postID, commentID, actorID primitive.ObjectID) error
	RemoveCommentLike(ctx context.Context, postID, commentID, actorID primitive.ObjectID) error

	AddReply(ctx context.Context, postID, commentID primitive.ObjectID, reply *models.Reply) error
	RemoveReply(ctx context.Context, postID, commentID, replyID primitive.ObjectID) error
	EditReply(ctx context.Context, postID, commentID, replyID primitive.ObjectID, content string) error
	AddReplyLike(ctx context.Context, postID, commentID, replyID, actorID primitive.ObjectID) error
	RemoveReplyLike(ctx context.Context, postID, commentID, replyID, actorID primitive.ObjectID) error
}

type postRepositoryMongo struct {
	db *mongo.Database
}

func NewPostRepository(db *mongo.Database) PostRepository {
	_, err := db.Collection("posts").Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "creator_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "comments._id", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	if err != nil {
		panic("Failed to create post indexes: " + err.Error())
	}

	return &postRepositoryMongo{db: db}
}

func (r *postRepositoryMongo) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}

	result, err := r.db.Collection("posts").InsertOne(ctx, post)
	if err != nil {
		return nil, err
	}
	post.ID = result.InsertedID.(primitive.ObjectID)
	return post, nil
}

func (r *postRepositoryMongo) GetPostByID(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	var post models.Post
	err := r.db.Collection("posts").FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepositoryMongo) DeletePost(ctx context.Context, postID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	result, err := r.db.Collection("posts").DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *postRepositoryMongo) PostExists(ctx context.Context, postID primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	count, err := r.db.Collection("posts").CountDocuments(ctx, bson.M{"_id": postID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *postRepositoryMongo) ListPosts(ctx context.Context, page, limit int64) ([]models.Post, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection("posts").Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}

	total, err := r.db.Collection("posts").CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Likes on the post itself.

func (r *postRepositoryMongo) AddPostLike(ctx context.Context, postID, actorID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	// The membership predicate is the atomic precondition check: a
	// racing duplicate like matches zero documents.
	result, err := r.db.Collection("posts").UpdateOne(
		ctx,
		bson.M{"_id": postID, "likes": bson.M{"$ne": actorID}},
		bson.M{
			"$addToSet": bson.M{"likes": actorID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.classify(ctx, postID, ErrAlreadyLiked)
	}
	return nil
}

func (r *postRepositoryMongo) RemovePostLike(ctx context.Context, postID, actorID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	result, err := r.db.Collection("posts").UpdateOne(
		ctx,
		bson.M{"_id": postID, "likes": actorID},
		bson.M{
			"$pull": bson.M{"likes": actorID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.classify(ctx, postID, ErrLikeNotFound)
	}
	return nil
}

// Comments.

func (r *postRepositoryMongo) AddComment(ctx context.Context, postID primitive.ObjectID, comment *models.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	comment.CreatedAt = time.Now()
	if comment.Likes == nil {
		comment.Likes = []primitive.ObjectID{}
	}
	if comment.Replies == nil {
		comment.Replies = []models.Reply{}
	}

	result, err := r.db.Collection("posts").UpdateOne(
		ctx,
		bson.M{"_id": postID},
		bson.M{
			"$push": bson.M{"comments": comment},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *postRepositoryMongo) RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	result, err := r.db.Collection("posts").UpdateOne(
		ctx,
		bson.M{"_id": postID, "comments._id": commentID},
		bson.M{
			"$pull": bson.M{"comments": bson.M{"_id": commentID}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.classify(ctx, postID, ErrCommentNotFound)
	}
	return nil
}

func (r *postRepositoryMongo) EditComment(ctx context.Context, postID, commentID primitive.ObjectID, content string) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	result, err := r.db.Collection("posts").UpdateOne(
		ctx,
		bson.M{"_id": postID, "comments._id": commentID},
		bson.M{"$set": bson.M{
			"comments.$.content": content,
			"comments.$.edited":  time.Now(),
			"updated_at":         time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.classify(ctx, postID, ErrCommentNotFound)
	}
	return nil
}

func (r *postRepositoryMongo) AddCommentLike(ctx context.Context, postID, commentID, actorID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	result, err := r.db.Collection("posts").UpdateOne(
		ctx,
		bson.M{
			"_id":      postID,
			"comments": bson.M{"$elemMatch": bson.M{"_id": commentID, "likes": bson.M{"$ne": actorID}}},
		},
		bson.M{
			"$addToSet": bson.M{"comments.$.likes": actorID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.classifyComment(ctx, postID, commentID, ErrAlreadyLiked)
	}
	return nil
}

func (r *postRepositoryMongo) RemoveCommentLike(ctx context.Context, postID, commentID, actorID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	result, err := r.db.Collection("posts").UpdateOne(
		ctx,
		bson.M{
			"_id":      postID,
			"comments": bson.M{"$elemMatch": bson.M{"_id": commentID, "likes": actorID}},
		},
		bson.M{
			"$pull": bson.M{"comments.$.likes": actorID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.classifyComment(ctx, postID, commentID, ErrLikeNotFound)
	}
	return nil
}

// Replies. The precondition sits in the query filter as nested
// $elemMatch, so a miss shows up as MatchedCount zero; arrayFilters
// only aim the write at the matched comment and reply.

func (r *postRepositoryMongo) AddReply(ctx context.Context, postID, commentID primitive.ObjectID, reply *models.Reply) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	if reply.ID.IsZero() {
		reply.ID = primitive.NewObjectID()
	}
	reply.CreatedAt = time.Now()
	if reply.Likes == nil {
		reply.Likes = []primitive.ObjectID{}
	}

	result, err := r.db.Collection("posts").UpdateOne(
		ctx,
		bson.M{"_id": postID, "comments._id": commentID},
		bson.M{
			"$push": bson.M{"comments.$.replies": reply},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.classify(ctx, postID, ErrCommentNotFound)
	}
	return nil
}

func (r *postRepositoryMongo) RemoveReply(ctx context.Context, postID, commentID, replyID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	result, err := r.db.Collection("posts").UpdateOne(
		ctx,
		bson.M{
			"_id": postID,
			"comments": bson.M{"$elemMatch": bson.M{
				"_id":     commentID,
				"replies": bson.M{"$elemMatch": bson.M{"_id": replyID}},
			}},
		},
		bson.M{
			"$pull": bson.M{"comments.$[c].replies": bson.M{"_id": replyID}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"c._id": commentID}},
		}),
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.classifyReply(ctx, postID, commentID, replyID, ErrReplyNotFound)
	}
	return nil
}

func (r *postRepositoryMongo) EditReply(ctx context.Context, postID, commentID, replyID primitive.ObjectID, content string) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	result, err := r.db.Collection("posts").UpdateOne(
		ctx,
		bson.M{
			"_id": postID,
			"comments": bson.M{"$elemMatch": bson.M{
				"_id":     commentID,
				"replies": bson.M{"$elemMatch": bson.M{"_id": replyID}},
			}},
		},
		bson.M{"$set": bson.M{
			"comments.$[c].replies.$[p].content": content,
			"comments.$[c].replies.$[p].edited":  time.Now(),
			"updated_at":                         time.Now(),
		}},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{
				bson.M{"c._id": commentID},
				bson.M{"p._id": replyID},
			},
		}),
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.classifyReply(ctx, postID, commentID, replyID, ErrReplyNotFound)
	}
	return nil
}

func (r *postRepositoryMongo) AddReplyLike(ctx context.Context, postID, commentID, replyID, actorID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	result, err := r.db.Collection("posts").UpdateOne(
		ctx,
		bson.M{
			"_id": postID,
			"comments": bson.M{"$elemMatch": bson.M{
				"_id": commentID,
				"replies": bson.M{"$elemMatch": bson.M{
					"_id":   replyID,
					"likes": bson.M{"$ne": actorID},
				}},
			}},
		},
		bson.M{
			"$addToSet": bson.M{"comments.$[c].replies.$[p].likes": actorID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{
				bson.M{"c._id": commentID},
				bson.M{"p._id": replyID},
			},
		}),
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.classifyReply(ctx, postID, commentID, replyID, ErrAlreadyLiked)
	}
	return nil
}

func (r *postRepositoryMongo) RemoveReplyLike(ctx context.Context, postID, commentID, replyID, actorID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	result, err := r.db.Collection("posts").UpdateOne(
		ctx,
		bson.M{
			"_id": postID,
			"comments": bson.M{"$elemMatch": bson.M{
				"_id": commentID,
				"replies": bson.M{"$elemMatch": bson.M{
					"_id":   replyID,
					"likes": actorID,
				}},
			}},
		},
		bson.M{
			"$pull": bson.M{"comments.$[c].replies.$[p].likes": actorID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{
				bson.M{"c._id": commentID},
				bson.M{"p._id": replyID},
			},
		}),
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.classifyReply(ctx, postID, commentID, replyID, ErrLikeNotFound)
	}
	return nil
}

// classify resolves a failed precondition into NotFound when the post
// itself is gone, otherwise the operation-specific error.
func (r *postRepositoryMongo) classify(ctx context.Context, postID primitive.ObjectID, fallback error) error {
	exists, err := r.PostExists(ctx, postID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrPostNotFound
	}
	return fallback
}

func (r *postRepositoryMongo) classifyComment(ctx context.Context, postID, commentID primitive.ObjectID, fallback error) error {
	post, err := r.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.Comment(commentID) == nil {
		return ErrCommentNotFound
	}
	return fallback
}

func (r *postRepositoryMongo) classifyReply(ctx context.Context, postID, commentID, replyID primitive.ObjectID, fallback error) error {
	post, err := r.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	comment := post.Comment(commentID)
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.Reply(replyID) == nil {
		return ErrReplyNotFound
	}
	return fallback
}
