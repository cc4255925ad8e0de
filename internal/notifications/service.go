package notifications

import (
	"context"
	"errors"

	"social-app/internal/models"
	"social-app/internal/repositories"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service is the read side of the notification feed. Reads prune
// entries whose source post has since been deleted, so a feed never
// shows a notification the user cannot follow.
type Service struct {
	notifs repositories.NotificationRepository
	posts  repositories.PostRepository
}

func NewService(notifs repositories.NotificationRepository, posts repositories.PostRepository) *Service {
	return &Service{notifs: notifs, posts: posts}
}

// List returns the feed most-recent-first. Entries pointing at deleted
// posts are dropped and the pruned list is persisted; the unread
// counter is not recomputed here, it only moves with reaction events
// and explicit clears.
func (s *Service) List(ctx context.Context, userID primitive.ObjectID) (*models.NotificationListResponse, error) {
	feed, err := s.notifs.Feed(ctx, userID)
	if err != nil {
		return nil, err
	}

	alive := make([]models.NotificationEntry, 0, len(feed.Content))
	pruned := false
	for _, entry := range feed.Content {
		ok, err := s.sourceAlive(ctx, entry)
		if err != nil {
			return nil, err
		}
		if !ok {
			pruned = true
			continue
		}
		alive = append(alive, entry)
	}

	if pruned {
		if err := s.notifs.ReplaceContent(ctx, userID, alive); err != nil {
			// Serve the pruned view anyway; the next read retries.
			log.Warn().Err(err).Str("user_id", userID.Hex()).Msg("failed to persist pruned feed")
		}
	}

	return &models.NotificationListResponse{
		Count:         feed.Count,
		Notifications: alive,
	}, nil
}

func (s *Service) Count(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	feed, err := s.notifs.Feed(ctx, userID)
	if err != nil {
		return 0, err
	}
	return feed.Count, nil
}

// Clear with an empty alert type wipes everything and resets the
// counter. A typed clear drops only those entries and leaves the
// counter alone.
func (s *Service) Clear(ctx context.Context, userID primitive.ObjectID, alertType models.AlertType) error {
	return s.notifs.Clear(ctx, userID, alertType)
}

// MarkRead resets the unread counter without touching entries.
func (s *Service) MarkRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.notifs.ResetCount(ctx, userID)
}

func (s *Service) sourceAlive(ctx context.Context, entry models.NotificationEntry) (bool, error) {
	switch entry.Payload.AlertType {
	case models.AlertTypeLike, models.AlertTypeComment:
	default:
		// Friend request entries reference users, not posts.
		return true, nil
	}

	if entry.Payload.OriginalID == entry.Payload.SourceID {
		return s.posts.PostExists(ctx, entry.Payload.SourceID)
	}

	// Comment- and reply-scoped entries die with their target, not
	// just with the post.
	post, err := s.posts.GetPostByID(ctx, entry.Payload.SourceID)
	if errors.Is(err, repositories.ErrPostNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if post.Comment(entry.Payload.OriginalID) != nil {
		return true, nil
	}
	for i := range post.Comments {
		if post.Comments[i].Reply(entry.Payload.OriginalID) != nil {
			return true, nil
		}
	}
	return false, nil
}
