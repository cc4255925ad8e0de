package services

import (
	"context"
	"encoding/json"
	"strings"

	"social-app/config"
	"social-app/internal/images"
	"social-app/internal/models"
	"social-app/internal/notifications"
	"social-app/internal/repositories"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reuse the repository sentinels at the service boundary.
var (
	ErrNotAuthorized = repositories.ErrNotAuthorized
	ErrEmptyContent  = repositories.ErrEmptyContent
)

// ReactionService coordinates reactions on posts, comments and
// replies: the conditional mutation, the recipient's aggregate
// notification, and the realtime push. Each reaction event moves the
// recipient's unread counter by exactly one step; the entry text is
// re-rendered from the full current actor list every time.
type ReactionService struct {
	posts     repositories.PostRepository
	users     repositories.UserRepository
	notifs    repositories.NotificationRepository
	images    images.Store
	publisher EventPublisher
	metrics   *config.Metrics
}

func NewReactionService(
	posts repositories.PostRepository,
	users repositories.UserRepository,
	notifs repositories.NotificationRepository,
	imageStore images.Store,
	publisher EventPublisher,
) *ReactionService {
	return &ReactionService{
		posts:     posts,
		users:     users,
		notifs:    notifs,
		images:    imageStore,
		publisher: publisher,
		metrics:   config.GetMetrics(),
	}
}

// Post likes

func (s *ReactionService) AddPostLike(ctx context.Context, actorID, postID primitive.ObjectID) (*models.Post, error) {
	if err := s.posts.AddPostLike(ctx, postID, actorID); err != nil {
		return nil, err
	}
	s.metrics.Reactions.WithLabelValues("post", "like").Inc()

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if actorID != post.CreatorID {
		s.upsertAggregate(ctx, post.CreatorID, post.Likes, notifications.ActionLike,
			models.AlertTypeLike, post.ID, post.ID, 1)
	}
	return post, nil
}

func (s *ReactionService) RemovePostLike(ctx context.Context, actorID, postID primitive.ObjectID) (*models.Post, error) {
	if err := s.posts.RemovePostLike(ctx, postID, actorID); err != nil {
		return nil, err
	}
	s.metrics.Reactions.WithLabelValues("post", "unlike").Inc()

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if actorID != post.CreatorID {
		s.upsertAggregate(ctx, post.CreatorID, post.Likes, notifications.ActionLike,
			models.AlertTypeLike, post.ID, post.ID, -1)
	}
	return post, nil
}

// Comments

func (s *ReactionService) AddComment(ctx context.Context, actorID, postID primitive.ObjectID, req models.CreateCommentRequest) (*models.Post, error) {
	if strings.TrimSpace(req.Content) == "" && req.ImagePath == "" {
		return nil, ErrEmptyContent
	}

	comment := models.Comment{
		ID:       primitive.NewObjectID(),
		AuthorID: actorID,
		Content:  req.Content,
	}
	if req.ImagePath != "" {
		uploaded, err := s.images.Upload(ctx, req.ImagePath)
		if err != nil {
			return nil, err
		}
		comment.Image = &models.ImageRef{URL: uploaded.URL, ID: uploaded.ID}
	}

	if err := s.posts.AddComment(ctx, postID, &comment); err != nil {
		return nil, err
	}
	s.metrics.Reactions.WithLabelValues("post", "comment").Inc()

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if actorID != post.CreatorID {
		s.upsertAggregate(ctx, post.CreatorID, post.CommenterIDs(), notifications.ActionComment,
			models.AlertTypeComment, post.ID, post.ID, 1)
	}
	return post, nil
}

// DeleteComment is allowed for the comment author and the post
// creator. The comment's image and every reply image under it are
// released from the store.
func (s *ReactionService) DeleteComment(ctx context.Context, actorID, postID, commentID primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment := post.Comment(commentID)
	if comment == nil {
		return nil, repositories.ErrCommentNotFound
	}
	if actorID != comment.AuthorID {
		return nil, ErrNotAuthorized
	}

	if err := s.posts.RemoveComment(ctx, postID, commentID); err != nil {
		return nil, err
	}

	s.releaseImage(ctx, comment.Image)
	for _, reply := range comment.Replies {
		s.releaseImage(ctx, reply.Image)
	}

	post, err = s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != post.CreatorID {
		s.upsertAggregate(ctx, post.CreatorID, post.CommenterIDs(), notifications.ActionComment,
			models.AlertTypeComment, post.ID, post.ID, -1)
	}
	return post, nil
}

func (s *ReactionService) EditComment(ctx context.Context, actorID, postID, commentID primitive.ObjectID, content string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment := post.Comment(commentID)
	if comment == nil {
		return nil, repositories.ErrCommentNotFound
	}
	if actorID != comment.AuthorID {
		return nil, ErrNotAuthorized
	}

	if err := s.posts.EditComment(ctx, postID, commentID, content); err != nil {
		return nil, err
	}
	return s.posts.GetPostByID(ctx, postID)
}

func (s *ReactionService) AddCommentLike(ctx context.Context, actorID, postID, commentID primitive.ObjectID) (*models.Post, error) {
	if err := s.posts.AddCommentLike(ctx, postID, commentID, actorID); err != nil {
		return nil, err
	}
	s.metrics.Reactions.WithLabelValues("comment", "like").Inc()

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment := post.Comment(commentID)
	if comment == nil {
		return post, nil
	}
	if actorID != comment.AuthorID {
		s.upsertAggregate(ctx, comment.AuthorID, comment.Likes, notifications.ActionLike,
			models.AlertTypeLike, comment.ID, post.ID, 1)
	}
	return post, nil
}

func (s *ReactionService) RemoveCommentLike(ctx context.Context, actorID, postID, commentID primitive.ObjectID) (*models.Post, error) {
	if err := s.posts.RemoveCommentLike(ctx, postID, commentID, actorID); err != nil {
		return nil, err
	}
	s.metrics.Reactions.WithLabelValues("comment", "unlike").Inc()

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment := post.Comment(commentID)
	if comment == nil {
		return post, nil
	}
	if actorID != comment.AuthorID {
		s.upsertAggregate(ctx, comment.AuthorID, comment.Likes, notifications.ActionLike,
			models.AlertTypeLike, comment.ID, post.ID, -1)
	}
	return post, nil
}

// Replies

func (s *ReactionService) AddReply(ctx context.Context, actorID, postID, commentID primitive.ObjectID, req models.CreateReplyRequest) (*models.Post, error) {
	if strings.TrimSpace(req.Content) == "" && req.ImagePath == "" {
		return nil, ErrEmptyContent
	}

	reply := models.Reply{
		ID:       primitive.NewObjectID(),
		AuthorID: actorID,
		Content:  req.Content,
	}
	if req.ImagePath != "" {
		uploaded, err := s.images.Upload(ctx, req.ImagePath)
		if err != nil {
			return nil, err
		}
		reply.Image = &models.ImageRef{URL: uploaded.URL, ID: uploaded.ID}
	}

	if err := s.posts.AddReply(ctx, postID, commentID, &reply); err != nil {
		return nil, err
	}
	s.metrics.Reactions.WithLabelValues("comment", "reply").Inc()

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment := post.Comment(commentID)
	if comment == nil {
		return post, nil
	}
	if actorID != comment.AuthorID {
		s.upsertAggregate(ctx, comment.AuthorID, comment.ReplierIDs(), notifications.ActionReply,
			models.AlertTypeComment, comment.ID, post.ID, 1)
	}
	return post, nil
}

// DeleteReply is allowed for the reply author and the parent comment's
// author.
func (s *ReactionService) DeleteReply(ctx context.Context, actorID, postID, commentID, replyID primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment := post.Comment(commentID)
	if comment == nil {
		return nil, repositories.ErrCommentNotFound
	}
	reply := comment.Reply(replyID)
	if reply == nil {
		return nil, repositories.ErrReplyNotFound
	}
	if actorID != reply.AuthorID {
		return nil, ErrNotAuthorized
	}

	if err := s.posts.RemoveReply(ctx, postID, commentID, replyID); err != nil {
		return nil, err
	}
	s.releaseImage(ctx, reply.Image)

	post, err = s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if fresh := post.Comment(commentID); fresh != nil && reply.AuthorID != comment.AuthorID {
		s.upsertAggregate(ctx, comment.AuthorID, fresh.ReplierIDs(), notifications.ActionReply,
			models.AlertTypeComment, comment.ID, post.ID, -1)
	}
	return post, nil
}

func (s *ReactionService) EditReply(ctx context.Context, actorID, postID, commentID, replyID primitive.ObjectID, content string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment := post.Comment(commentID)
	if comment == nil {
		return nil, repositories.ErrCommentNotFound
	}
	reply := comment.Reply(replyID)
	if reply == nil {
		return nil, repositories.ErrReplyNotFound
	}
	if actorID != reply.AuthorID {
		return nil, ErrNotAuthorized
	}

	if err := s.posts.EditReply(ctx, postID, commentID, replyID, content); err != nil {
		return nil, err
	}
	return s.posts.GetPostByID(ctx, postID)
}

func (s *ReactionService) AddReplyLike(ctx context.Context, actorID, postID, commentID, replyID primitive.ObjectID) (*models.Post, error) {
	if err := s.posts.AddReplyLike(ctx, postID, commentID, replyID, actorID); err != nil {
		return nil, err
	}
	s.metrics.Reactions.WithLabelValues("reply", "like").Inc()

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment := post.Comment(commentID)
	if comment == nil {
		return post, nil
	}
	reply := comment.Reply(replyID)
	if reply == nil {
		return post, nil
	}
	if actorID != reply.AuthorID {
		s.upsertAggregate(ctx, reply.AuthorID, reply.Likes, notifications.ActionLike,
			models.AlertTypeLike, reply.ID, post.ID, 1)
	}
	return post, nil
}

func (s *ReactionService) RemoveReplyLike(ctx context.Context, actorID, postID, commentID, replyID primitive.ObjectID) (*models.Post, error) {
	if err := s.posts.RemoveReplyLike(ctx, postID, commentID, replyID, actorID); err != nil {
		return nil, err
	}
	s.metrics.Reactions.WithLabelValues("reply", "unlike").Inc()

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment := post.Comment(commentID)
	if comment == nil {
		return post, nil
	}
	reply := comment.Reply(replyID)
	if reply == nil {
		return post, nil
	}
	if actorID != reply.AuthorID {
		s.upsertAggregate(ctx, reply.AuthorID, reply.Likes, notifications.ActionLike,
			models.AlertTypeLike, reply.ID, post.ID, -1)
	}
	return post, nil
}

// upsertAggregate re-renders the aggregate entry for (originalID,
// alertType) from the full current actor list and moves the counter by
// delta. An empty remaining actor list removes the entry instead.
// Failures here are logged, not returned: the underlying mutation has
// already committed and must not be reported as failed.
func (s *ReactionService) upsertAggregate(
	ctx context.Context,
	recipientID primitive.ObjectID,
	actorIDs []primitive.ObjectID,
	action notifications.Action,
	alertType models.AlertType,
	originalID, sourceID primitive.ObjectID,
	delta int64,
) {
	ordered := notifications.DistinctMostRecentFirst(actorIDs)
	filtered := ordered[:0:0]
	for _, id := range ordered {
		if id != recipientID {
			filtered = append(filtered, id)
		}
	}

	if len(filtered) == 0 {
		if _, err := s.notifs.RemoveEntry(ctx, recipientID, originalID, alertType); err != nil {
			log.Error().Err(err).Str("recipient_id", recipientID.Hex()).Msg("failed to remove notification entry")
			return
		}
		if err := s.notifs.IncCount(ctx, recipientID, delta); err != nil {
			log.Error().Err(err).Str("recipient_id", recipientID.Hex()).Msg("failed to move notification count")
		}
		return
	}

	userByID, err := s.users.FindUsersByIDs(ctx, filtered)
	if err != nil {
		log.Error().Err(err).Str("recipient_id", recipientID.Hex()).Msg("failed to resolve reaction actors")
		return
	}

	actors := make([]notifications.Actor, 0, len(filtered))
	actorImage := ""
	for _, id := range filtered {
		user, ok := userByID[id]
		if !ok {
			continue
		}
		actors = append(actors, notifications.Actor{FirstName: user.FirstName, LastName: user.LastName})
		if actorImage == "" {
			actorImage = user.AvatarURL()
		}
	}

	rendered := notifications.Render(actors, action)
	if rendered.Count == 0 {
		return
	}

	entry := models.NotificationEntry{
		ID: primitive.NewObjectID(),
		Payload: models.NotificationPayload{
			OriginalID: originalID,
			AlertType:  alertType,
			SourceID:   sourceID,
			ActorImage: actorImage,
		},
		Message: rendered.Text,
	}

	if err := s.notifs.ReplaceEntry(ctx, recipientID, entry); err != nil {
		log.Error().Err(err).Str("recipient_id", recipientID.Hex()).Msg("failed to upsert notification entry")
		return
	}
	if err := s.notifs.IncCount(ctx, recipientID, delta); err != nil {
		log.Error().Err(err).Str("recipient_id", recipientID.Hex()).Msg("failed to move notification count")
	}
	s.metrics.NotificationsWritten.Inc()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	publishEvent(ctx, s.publisher, models.RealtimeEvent{
		Type:        models.EventNotification,
		RecipientID: recipientID,
		Data:        data,
	})
}

func (s *ReactionService) releaseImage(ctx context.Context, ref *models.ImageRef) {
	if ref == nil || ref.ID == "" {
		return
	}
	if err := s.images.Remove(ctx, ref.ID); err != nil {
		log.Warn().Err(err).Str("image_id", ref.ID).Msg("failed to release image")
	}
}
