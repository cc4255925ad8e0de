package notifications

import (
	"context"
	"testing"

	"social-app/internal/models"
	"social-app/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memFeedRepo struct {
	feeds map[primitive.ObjectID]*models.NotificationFeed
}

func newMemFeedRepo() *memFeedRepo {
	return &memFeedRepo{feeds: make(map[primitive.ObjectID]*models.NotificationFeed)}
}

func (m *memFeedRepo) get(userID primitive.ObjectID) *models.NotificationFeed {
	feed, ok := m.feeds[userID]
	if !ok {
		feed = &models.NotificationFeed{RecipientID: userID, Content: []models.NotificationEntry{}}
		m.feeds[userID] = feed
	}
	return feed
}

func (m *memFeedRepo) Feed(_ context.Context, userID primitive.ObjectID) (*models.NotificationFeed, error) {
	feed := m.get(userID)
	clone := *feed
	clone.Content = append([]models.NotificationEntry(nil), feed.Content...)
	return &clone, nil
}

func (m *memFeedRepo) ReplaceEntry(_ context.Context, userID primitive.ObjectID, entry models.NotificationEntry) error {
	feed := m.get(userID)
	feed.Content = append([]models.NotificationEntry{entry}, feed.Content...)
	return nil
}

func (m *memFeedRepo) RemoveEntry(_ context.Context, userID, originalID primitive.ObjectID, alertType models.AlertType) (bool, error) {
	return false, nil
}

func (m *memFeedRepo) IncCount(_ context.Context, userID primitive.ObjectID, delta int64) error {
	feed := m.get(userID)
	if delta < 0 && feed.Count <= 0 {
		return nil
	}
	feed.Count += delta
	return nil
}

func (m *memFeedRepo) ResetCount(_ context.Context, userID primitive.ObjectID) error {
	m.get(userID).Count = 0
	return nil
}

func (m *memFeedRepo) Clear(_ context.Context, userID primitive.ObjectID, alertType models.AlertType) error {
	feed := m.get(userID)
	if alertType == "" {
		feed.Content = []models.NotificationEntry{}
		feed.Count = 0
		return nil
	}
	kept := feed.Content[:0]
	for _, entry := range feed.Content {
		if entry.Payload.AlertType != alertType {
			kept = append(kept, entry)
		}
	}
	feed.Content = kept
	return nil
}

func (m *memFeedRepo) ReplaceContent(_ context.Context, userID primitive.ObjectID, content []models.NotificationEntry) error {
	m.get(userID).Content = append([]models.NotificationEntry(nil), content...)
	return nil
}

// memPostRepo only answers reads; the write half is unused by the
// read side.
type memPostRepo struct {
	posts map[primitive.ObjectID]*models.Post
}

func (m *memPostRepo) PostExists(_ context.Context, postID primitive.ObjectID) (bool, error) {
	_, ok := m.posts[postID]
	return ok, nil
}

func (m *memPostRepo) GetPostByID(_ context.Context, postID primitive.ObjectID) (*models.Post, error) {
	post, ok := m.posts[postID]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	return post, nil
}

func (m *memPostRepo) CreatePost(context.Context, *models.Post) (*models.Post, error) {
	panic("not used")
}
func (m *memPostRepo) DeletePost(context.Context, primitive.ObjectID) error { panic("not used") }
func (m *memPostRepo) ListPosts(context.Context, int64, int64) ([]models.Post, int64, error) {
	panic("not used")
}
func (m *memPostRepo) AddPostLike(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	panic("not used")
}
func (m *memPostRepo) RemovePostLike(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	panic("not used")
}
func (m *memPostRepo) AddComment(context.Context, primitive.ObjectID, *models.Comment) error {
	panic("not used")
}
func (m *memPostRepo) RemoveComment(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	panic("not used")
}
func (m *memPostRepo) EditComment(context.Context, primitive.ObjectID, primitive.ObjectID, string) error {
	panic("not used")
}
func (m *memPostRepo) AddCommentLike(context.Context, primitive.ObjectID, primitive.ObjectID, primitive.ObjectID) error {
	panic("not used")
}
func (m *memPostRepo) RemoveCommentLike(context.Context, primitive.ObjectID, primitive.ObjectID, primitive.ObjectID) error {
	panic("not used")
}
func (m *memPostRepo) AddReply(context.Context, primitive.ObjectID, primitive.ObjectID, *models.Reply) error {
	panic("not used")
}
func (m *memPostRepo) RemoveReply(context.Context, primitive.ObjectID, primitive.ObjectID, primitive.ObjectID) error {
	panic("not used")
}
func (m *memPostRepo) EditReply(context.Context, primitive.ObjectID, primitive.ObjectID, primitive.ObjectID, string) error {
	panic("not used")
}
func (m *memPostRepo) AddReplyLike(context.Context, primitive.ObjectID, primitive.ObjectID, primitive.ObjectID, primitive.ObjectID) error {
	panic("not used")
}
func (m *memPostRepo) RemoveReplyLike(context.Context, primitive.ObjectID, primitive.ObjectID, primitive.ObjectID, primitive.ObjectID) error {
	panic("not used")
}

var _ repositories.NotificationRepository = (*memFeedRepo)(nil)
var _ repositories.PostRepository = (*memPostRepo)(nil)

func entryFor(postID primitive.ObjectID, alertType models.AlertType, message string) models.NotificationEntry {
	return models.NotificationEntry{
		ID: primitive.NewObjectID(),
		Payload: models.NotificationPayload{
			OriginalID: postID,
			AlertType:  alertType,
			SourceID:   postID,
		},
		Message: message,
	}
}

func TestListPrunesDeadSourcePosts(t *testing.T) {
	feeds := newMemFeedRepo()
	userID := primitive.NewObjectID()
	livePost := primitive.NewObjectID()
	deadPost := primitive.NewObjectID()
	posts := &memPostRepo{posts: map[primitive.ObjectID]*models.Post{livePost: {ID: livePost}}}

	ctx := context.Background()
	require.NoError(t, feeds.ReplaceEntry(ctx, userID, entryFor(livePost, models.AlertTypeLike, "kept")))
	require.NoError(t, feeds.ReplaceEntry(ctx, userID, entryFor(deadPost, models.AlertTypeComment, "pruned")))
	require.NoError(t, feeds.IncCount(ctx, userID, 2))

	service := NewService(feeds, posts)
	resp, err := service.List(ctx, userID)
	require.NoError(t, err)

	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "kept", resp.Notifications[0].Message)
	assert.Equal(t, int64(2), resp.Count, "pruning never rewrites the counter")

	// The pruned view was persisted.
	stored, err := feeds.Feed(ctx, userID)
	require.NoError(t, err)
	require.Len(t, stored.Content, 1)
}

func TestListKeepsFriendEntriesRegardlessOfPosts(t *testing.T) {
	feeds := newMemFeedRepo()
	userID := primitive.NewObjectID()
	requester := primitive.NewObjectID()
	posts := &memPostRepo{posts: map[primitive.ObjectID]*models.Post{}}

	ctx := context.Background()
	require.NoError(t, feeds.ReplaceEntry(ctx, userID, entryFor(requester, models.AlertTypeFriendRequest, "friend request")))

	service := NewService(feeds, posts)
	resp, err := service.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
}

func scopedEntry(originalID, sourceID primitive.ObjectID, alertType models.AlertType, message string) models.NotificationEntry {
	return models.NotificationEntry{
		ID: primitive.NewObjectID(),
		Payload: models.NotificationPayload{
			OriginalID: originalID,
			AlertType:  alertType,
			SourceID:   sourceID,
		},
		Message: message,
	}
}

func TestListPrunesEntriesForDeletedComment(t *testing.T) {
	feeds := newMemFeedRepo()
	userID := primitive.NewObjectID()
	postID := primitive.NewObjectID()
	liveComment := primitive.NewObjectID()
	deadComment := primitive.NewObjectID()

	posts := &memPostRepo{posts: map[primitive.ObjectID]*models.Post{
		postID: {
			ID:       postID,
			Comments: []models.Comment{{ID: liveComment}},
		},
	}}

	ctx := context.Background()
	require.NoError(t, feeds.ReplaceEntry(ctx, userID, scopedEntry(liveComment, postID, models.AlertTypeLike, "kept")))
	require.NoError(t, feeds.ReplaceEntry(ctx, userID, scopedEntry(deadComment, postID, models.AlertTypeLike, "pruned")))

	service := NewService(feeds, posts)
	resp, err := service.List(ctx, userID)
	require.NoError(t, err)

	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "kept", resp.Notifications[0].Message)

	stored, err := feeds.Feed(ctx, userID)
	require.NoError(t, err)
	require.Len(t, stored.Content, 1)
}

func TestListKeepsReplyScopedEntryWhileReplyLives(t *testing.T) {
	feeds := newMemFeedRepo()
	userID := primitive.NewObjectID()
	postID := primitive.NewObjectID()
	commentID := primitive.NewObjectID()
	replyID := primitive.NewObjectID()

	posts := &memPostRepo{posts: map[primitive.ObjectID]*models.Post{
		postID: {
			ID: postID,
			Comments: []models.Comment{{
				ID:      commentID,
				Replies: []models.Reply{{ID: replyID}},
			}},
		},
	}}

	ctx := context.Background()
	require.NoError(t, feeds.ReplaceEntry(ctx, userID, scopedEntry(replyID, postID, models.AlertTypeLike, "reply like")))

	service := NewService(feeds, posts)
	resp, err := service.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)

	// Deleting the comment takes its replies' entries with it.
	posts.posts[postID].Comments = nil
	resp, err = service.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, resp.Notifications)
}

func TestClearAllResetsCounter(t *testing.T) {
	feeds := newMemFeedRepo()
	userID := primitive.NewObjectID()
	postID := primitive.NewObjectID()
	posts := &memPostRepo{posts: map[primitive.ObjectID]*models.Post{postID: {ID: postID}}}

	ctx := context.Background()
	require.NoError(t, feeds.ReplaceEntry(ctx, userID, entryFor(postID, models.AlertTypeLike, "like")))
	require.NoError(t, feeds.IncCount(ctx, userID, 1))

	service := NewService(feeds, posts)
	require.NoError(t, service.Clear(ctx, userID, ""))

	resp, err := service.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, resp.Notifications)
	assert.Equal(t, int64(0), resp.Count)
}

func TestClearByTypeLeavesCounter(t *testing.T) {
	feeds := newMemFeedRepo()
	userID := primitive.NewObjectID()
	postID := primitive.NewObjectID()
	requester := primitive.NewObjectID()
	posts := &memPostRepo{posts: map[primitive.ObjectID]*models.Post{postID: {ID: postID}}}

	ctx := context.Background()
	require.NoError(t, feeds.ReplaceEntry(ctx, userID, entryFor(postID, models.AlertTypeLike, "like")))
	require.NoError(t, feeds.ReplaceEntry(ctx, userID, entryFor(requester, models.AlertTypeFriendRequest, "request")))
	require.NoError(t, feeds.IncCount(ctx, userID, 2))

	service := NewService(feeds, posts)
	require.NoError(t, service.Clear(ctx, userID, models.AlertTypeLike))

	resp, err := service.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, models.AlertTypeFriendRequest, resp.Notifications[0].Payload.AlertType)
	assert.Equal(t, int64(2), resp.Count)
}

func TestMarkReadZeroesCounterOnly(t *testing.T) {
	feeds := newMemFeedRepo()
	userID := primitive.NewObjectID()
	postID := primitive.NewObjectID()
	posts := &memPostRepo{posts: map[primitive.ObjectID]*models.Post{postID: {ID: postID}}}

	ctx := context.Background()
	require.NoError(t, feeds.ReplaceEntry(ctx, userID, entryFor(postID, models.AlertTypeLike, "like")))
	require.NoError(t, feeds.IncCount(ctx, userID, 1))

	service := NewService(feeds, posts)
	require.NoError(t, service.MarkRead(ctx, userID))

	resp, err := service.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, int64(0), resp.Count)
}
