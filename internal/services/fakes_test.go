package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"social-app/internal/images"
	"social-app/internal/models"
	"social-app/internal/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory doubles that keep the repositories' conditional-write
// semantics: preconditions are checked under one lock, exactly like
// the single-document updates they stand in for.

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[primitive.ObjectID]*models.Post)}
}

func (f *fakePostRepo) CreatePost(_ context.Context, post *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	post.CreatedAt = time.Now()
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	clone := clonePost(post)
	f.posts[post.ID] = clone
	return clonePost(clone), nil
}

func (f *fakePostRepo) GetPostByID(_ context.Context, postID primitive.ObjectID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[postID]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	return clonePost(post), nil
}

func (f *fakePostRepo) DeletePost(_ context.Context, postID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[postID]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(f.posts, postID)
	return nil
}

func (f *fakePostRepo) PostExists(_ context.Context, postID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.posts[postID]
	return ok, nil
}

func (f *fakePostRepo) ListPosts(_ context.Context, page, limit int64) ([]models.Post, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Post, 0, len(f.posts))
	for _, post := range f.posts {
		out = append(out, *clonePost(post))
	}
	return out, int64(len(out)), nil
}

func (f *fakePostRepo) AddPostLike(_ context.Context, postID, actorID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[postID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	if containsID(post.Likes, actorID) {
		return repositories.ErrAlreadyLiked
	}
	post.Likes = append(post.Likes, actorID)
	return nil
}

func (f *fakePostRepo) RemovePostLike(_ context.Context, postID, actorID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[postID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	if !containsID(post.Likes, actorID) {
		return repositories.ErrLikeNotFound
	}
	post.Likes = removeID(post.Likes, actorID)
	return nil
}

func (f *fakePostRepo) AddComment(_ context.Context, postID primitive.ObjectID, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[postID]
	if !ok {
		return repositories.ErrPostNotFound
	}
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
	post.Comments = append(post.Comments, *comment)
	return nil
}

func (f *fakePostRepo) RemoveComment(_ context.Context, postID, commentID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[postID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			post.Comments = append(post.Comments[:i], post.Comments[i+1:]...)
			return nil
		}
	}
	return repositories.ErrCommentNotFound
}

func (f *fakePostRepo) EditComment(_ context.Context, postID, commentID primitive.ObjectID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, err := f.comment(postID, commentID)
	if err != nil {
		return err
	}
	now := time.Now()
	comment.Content = content
	comment.Edited = &now
	return nil
}

func (f *fakePostRepo) AddCommentLike(_ context.Context, postID, commentID, actorID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, err := f.comment(postID, commentID)
	if err != nil {
		return err
	}
	if containsID(comment.Likes, actorID) {
		return repositories.ErrAlreadyLiked
	}
	comment.Likes = append(comment.Likes, actorID)
	return nil
}

func (f *fakePostRepo) RemoveCommentLike(_ context.Context, postID, commentID, actorID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, err := f.comment(postID, commentID)
	if err != nil {
		return err
	}
	if !containsID(comment.Likes, actorID) {
		return repositories.ErrLikeNotFound
	}
	comment.Likes = removeID(comment.Likes, actorID)
	return nil
}

func (f *fakePostRepo) AddReply(_ context.Context, postID, commentID primitive.ObjectID, reply *models.Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, err := f.comment(postID, commentID)
	if err != nil {
		return err
	}
	if reply.ID.IsZero() {
		reply.ID = primitive.NewObjectID()
	}
	reply.CreatedAt = time.Now()
	if reply.Likes == nil {
		reply.Likes = []primitive.ObjectID{}
	}
	comment.Replies = append(comment.Replies, *reply)
	return nil
}

func (f *fakePostRepo) RemoveReply(_ context.Context, postID, commentID, replyID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, err := f.comment(postID, commentID)
	if err != nil {
		return err
	}
	for i := range comment.Replies {
		if comment.Replies[i].ID == replyID {
			comment.Replies = append(comment.Replies[:i], comment.Replies[i+1:]...)
			return nil
		}
	}
	return repositories.ErrReplyNotFound
}

func (f *fakePostRepo) EditReply(_ context.Context, postID, commentID, replyID primitive.ObjectID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reply, err := f.reply(postID, commentID, replyID)
	if err != nil {
		return err
	}
	now := time.Now()
	reply.Content = content
	reply.Edited = &now
	return nil
}

func (f *fakePostRepo) AddReplyLike(_ context.Context, postID, commentID, replyID, actorID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reply, err := f.reply(postID, commentID, replyID)
	if err != nil {
		return err
	}
	if containsID(reply.Likes, actorID) {
		return repositories.ErrAlreadyLiked
	}
	reply.Likes = append(reply.Likes, actorID)
	return nil
}

func (f *fakePostRepo) RemoveReplyLike(_ context.Context, postID, commentID, replyID, actorID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reply, err := f.reply(postID, commentID, replyID)
	if err != nil {
		return err
	}
	if !containsID(reply.Likes, actorID) {
		return repositories.ErrLikeNotFound
	}
	reply.Likes = removeID(reply.Likes, actorID)
	return nil
}

func (f *fakePostRepo) comment(postID, commentID primitive.ObjectID) (*models.Comment, error) {
	post, ok := f.posts[postID]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			return &post.Comments[i], nil
		}
	}
	return nil, repositories.ErrCommentNotFound
}

func (f *fakePostRepo) reply(postID, commentID, replyID primitive.ObjectID) (*models.Reply, error) {
	comment, err := f.comment(postID, commentID)
	if err != nil {
		return nil, err
	}
	for i := range comment.Replies {
		if comment.Replies[i].ID == replyID {
			return &comment.Replies[i], nil
		}
	}
	return nil, repositories.ErrReplyNotFound
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) FindUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) FindUsersByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[primitive.ObjectID]models.User, len(ids))
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			out[id] = *user
		}
	}
	return out, nil
}

func (f *fakeUserRepo) SearchUsers(_ context.Context, name string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, user := range f.users {
		if strings.Contains(strings.ToLower(user.FullName()), strings.ToLower(name)) {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) AddFriend(_ context.Context, userID1, userID2 primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.users[userID1]
	if !ok {
		return repositories.ErrUserNotFound
	}
	b, ok := f.users[userID2]
	if !ok {
		return repositories.ErrUserNotFound
	}
	if !containsID(a.Friends, userID2) {
		a.Friends = append(a.Friends, userID2)
	}
	if !containsID(b.Friends, userID1) {
		b.Friends = append(b.Friends, userID1)
	}
	return nil
}

func (f *fakeUserRepo) RemoveFriend(_ context.Context, userID1, userID2 primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.users[userID1]; ok {
		a.Friends = removeID(a.Friends, userID2)
	}
	if b, ok := f.users[userID2]; ok {
		b.Friends = removeID(b.Friends, userID1)
	}
	return nil
}

func (f *fakeUserRepo) IncInboxCount(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.Inbox.Count++
	return nil
}

func (f *fakeUserRepo) ResetInboxCount(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.Inbox.Count = 0
	return nil
}

func (f *fakeUserRepo) TouchInboxRoom(_ context.Context, userID, roomID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.Inbox.Rooms = append([]primitive.ObjectID{roomID}, removeID(user.Inbox.Rooms, roomID)...)
	return nil
}

func (f *fakeUserRepo) RemoveInboxRoom(_ context.Context, userID, roomID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.Inbox.Rooms = removeID(user.Inbox.Rooms, roomID)
	return nil
}

type fakeNotificationRepo struct {
	mu    sync.Mutex
	feeds map[primitive.ObjectID]*models.NotificationFeed
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{feeds: make(map[primitive.ObjectID]*models.NotificationFeed)}
}

func (f *fakeNotificationRepo) feed(userID primitive.ObjectID) *models.NotificationFeed {
	feed, ok := f.feeds[userID]
	if !ok {
		feed = &models.NotificationFeed{RecipientID: userID, Content: []models.NotificationEntry{}}
		f.feeds[userID] = feed
	}
	return feed
}

func (f *fakeNotificationRepo) Feed(_ context.Context, userID primitive.ObjectID) (*models.NotificationFeed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	feed := f.feed(userID)
	clone := *feed
	clone.Content = append([]models.NotificationEntry(nil), feed.Content...)
	return &clone, nil
}

func (f *fakeNotificationRepo) ReplaceEntry(_ context.Context, userID primitive.ObjectID, entry models.NotificationEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	feed := f.feed(userID)
	kept := feed.Content[:0]
	for _, existing := range feed.Content {
		if existing.Payload.OriginalID == entry.Payload.OriginalID &&
			existing.Payload.AlertType == entry.Payload.AlertType {
			continue
		}
		kept = append(kept, existing)
	}
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	feed.Content = append([]models.NotificationEntry{entry}, kept...)
	return nil
}

func (f *fakeNotificationRepo) RemoveEntry(_ context.Context, userID, originalID primitive.ObjectID, alertType models.AlertType) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	feed := f.feed(userID)
	for i, existing := range feed.Content {
		if existing.Payload.OriginalID == originalID && existing.Payload.AlertType == alertType {
			feed.Content = append(feed.Content[:i], feed.Content[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationRepo) IncCount(_ context.Context, userID primitive.ObjectID, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	feed := f.feed(userID)
	if delta < 0 && feed.Count <= 0 {
		return nil
	}
	feed.Count += delta
	return nil
}

func (f *fakeNotificationRepo) ResetCount(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feed(userID).Count = 0
	return nil
}

func (f *fakeNotificationRepo) Clear(_ context.Context, userID primitive.ObjectID, alertType models.AlertType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	feed := f.feed(userID)
	if alertType == "" {
		feed.Content = []models.NotificationEntry{}
		feed.Count = 0
		return nil
	}
	kept := feed.Content[:0]
	for _, existing := range feed.Content {
		if existing.Payload.AlertType != alertType {
			kept = append(kept, existing)
		}
	}
	feed.Content = kept
	return nil
}

func (f *fakeNotificationRepo) ReplaceContent(_ context.Context, userID primitive.ObjectID, content []models.NotificationEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feed(userID).Content = append([]models.NotificationEntry(nil), content...)
	return nil
}

type fakeFriendshipRepo struct {
	mu    sync.Mutex
	pairs map[[2]primitive.ObjectID]string
}

func newFakeFriendshipRepo() *fakeFriendshipRepo {
	return &fakeFriendshipRepo{pairs: make(map[[2]primitive.ObjectID]string)}
}

func (f *fakeFriendshipRepo) find(a, b primitive.ObjectID) ([2]primitive.ObjectID, string, bool) {
	if status, ok := f.pairs[[2]primitive.ObjectID{a, b}]; ok {
		return [2]primitive.ObjectID{a, b}, status, true
	}
	if status, ok := f.pairs[[2]primitive.ObjectID{b, a}]; ok {
		return [2]primitive.ObjectID{b, a}, status, true
	}
	return [2]primitive.ObjectID{}, "", false
}

func (f *fakeFriendshipRepo) CreateRequest(_ context.Context, requesterID, receiverID primitive.ObjectID) (*models.Friendship, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if requesterID == receiverID {
		return nil, repositories.ErrCannotFriendSelf
	}
	if _, status, ok := f.find(requesterID, receiverID); ok {
		if status == models.FriendshipStatusAccepted {
			return nil, repositories.ErrAlreadyFriends
		}
		return nil, repositories.ErrFriendRequestExists
	}
	f.pairs[[2]primitive.ObjectID{requesterID, receiverID}] = models.FriendshipStatusPending
	return &models.Friendship{
		ID:          primitive.NewObjectID(),
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      models.FriendshipStatusPending,
	}, nil
}

func (f *fakeFriendshipRepo) HasPendingRequest(_ context.Context, requesterID, receiverID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pairs[[2]primitive.ObjectID{requesterID, receiverID}] == models.FriendshipStatusPending, nil
}

func (f *fakeFriendshipRepo) AcceptRequest(_ context.Context, requesterID, receiverID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]primitive.ObjectID{requesterID, receiverID}
	if f.pairs[key] != models.FriendshipStatusPending {
		return repositories.ErrFriendRequestNotFound
	}
	f.pairs[key] = models.FriendshipStatusAccepted
	return nil
}

func (f *fakeFriendshipRepo) DeletePending(_ context.Context, requesterID, receiverID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]primitive.ObjectID{requesterID, receiverID}
	if f.pairs[key] != models.FriendshipStatusPending {
		return repositories.ErrFriendRequestNotFound
	}
	delete(f.pairs, key)
	return nil
}

func (f *fakeFriendshipRepo) AreFriends(_ context.Context, userA, userB primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, status, ok := f.find(userA, userB)
	return ok && status == models.FriendshipStatusAccepted, nil
}

func (f *fakeFriendshipRepo) Unfriend(_ context.Context, userA, userB primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key, status, ok := f.find(userA, userB)
	if !ok || status != models.FriendshipStatusAccepted {
		return repositories.ErrNotFriends
	}
	delete(f.pairs, key)
	return nil
}

func (f *fakeFriendshipRepo) ListPending(_ context.Context, receiverID primitive.ObjectID) ([]models.Friendship, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Friendship
	for key, status := range f.pairs {
		if key[1] == receiverID && status == models.FriendshipStatusPending {
			out = append(out, models.Friendship{
				RequesterID: key[0],
				ReceiverID:  key[1],
				Status:      status,
			})
		}
	}
	return out, nil
}

type fakeChatRepo struct {
	mu    sync.Mutex
	chats map[primitive.ObjectID]*models.Chat
	rooms map[primitive.ObjectID]*models.Chatroom
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats: make(map[primitive.ObjectID]*models.Chat),
		rooms: make(map[primitive.ObjectID]*models.Chatroom),
	}
}

func (f *fakeChatRepo) GetOrCreateDirectChat(_ context.Context, userA, userB primitive.ObjectID) (*models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, chat := range f.chats {
		if chat.HasMember(userA) && chat.HasMember(userB) {
			clone := *chat
			return &clone, nil
		}
	}
	chat := &models.Chat{
		ID:       primitive.NewObjectID(),
		Members:  []primitive.ObjectID{userA, userB},
		Messages: []models.ChatMessage{},
	}
	f.chats[chat.ID] = chat
	clone := *chat
	return &clone, nil
}

func (f *fakeChatRepo) GetChat(_ context.Context, chatID primitive.ObjectID) (*models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	chat, ok := f.chats[chatID]
	if !ok {
		return nil, repositories.ErrChatNotFound
	}
	clone := *chat
	return &clone, nil
}

func (f *fakeChatRepo) AppendChatMessage(_ context.Context, chatID primitive.ObjectID, message models.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	chat, ok := f.chats[chatID]
	if !ok {
		return repositories.ErrChatNotFound
	}
	chat.Messages = append(chat.Messages, message)
	return nil
}

func (f *fakeChatRepo) CreateRoom(_ context.Context, room *models.Chatroom) (*models.Chatroom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rooms {
		if existing.Title == room.Title {
			return nil, repositories.ErrChatroomExists
		}
	}
	room.ID = primitive.NewObjectID()
	if room.Messages == nil {
		room.Messages = []models.ChatMessage{}
	}
	f.rooms[room.ID] = room
	clone := *room
	return &clone, nil
}

func (f *fakeChatRepo) GetRoom(_ context.Context, roomID primitive.ObjectID) (*models.Chatroom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, repositories.ErrChatroomNotFound
	}
	clone := *room
	clone.Members = append([]primitive.ObjectID(nil), room.Members...)
	return &clone, nil
}

func (f *fakeChatRepo) AddRoomMember(_ context.Context, roomID, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[roomID]
	if !ok {
		return repositories.ErrChatroomNotFound
	}
	if room.HasMember(userID) {
		return repositories.ErrAlreadyChatMember
	}
	room.Members = append(room.Members, userID)
	return nil
}

func (f *fakeChatRepo) RemoveRoomMember(_ context.Context, roomID, userID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[roomID]
	if !ok {
		return 0, repositories.ErrChatroomNotFound
	}
	if !room.HasMember(userID) {
		return 0, repositories.ErrChatMemberNotFound
	}
	room.Members = removeID(room.Members, userID)
	return int64(len(room.Members)), nil
}

func (f *fakeChatRepo) AppendRoomMessage(_ context.Context, roomID primitive.ObjectID, message models.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[roomID]
	if !ok {
		return repositories.ErrChatroomNotFound
	}
	room.Messages = append(room.Messages, message)
	return nil
}

func (f *fakeChatRepo) DeleteRoom(_ context.Context, roomID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rooms[roomID]; !ok {
		return repositories.ErrChatroomNotFound
	}
	delete(f.rooms, roomID)
	return nil
}

type fakeImageStore struct {
	mu       sync.Mutex
	uploads  int
	removed  []string
	uploadID int
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{}
}

func (f *fakeImageStore) Upload(_ context.Context, path string) (*images.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	f.uploadID++
	return &images.Image{URL: "https://img.test/" + path, ID: "img-" + path}, nil
}

func (f *fakeImageStore) Remove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeImageStore) removedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removed...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.RealtimeEvent
}

func (f *fakePublisher) Publish(_ context.Context, event models.RealtimeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) published() []models.RealtimeEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.RealtimeEvent(nil), f.events...)
}

func clonePost(post *models.Post) *models.Post {
	clone := *post
	clone.Likes = append([]primitive.ObjectID(nil), post.Likes...)
	clone.Comments = make([]models.Comment, len(post.Comments))
	for i, comment := range post.Comments {
		cc := comment
		cc.Likes = append([]primitive.ObjectID(nil), comment.Likes...)
		cc.Replies = make([]models.Reply, len(comment.Replies))
		for j, reply := range comment.Replies {
			rc := reply
			rc.Likes = append([]primitive.ObjectID(nil), reply.Likes...)
			cc.Replies[j] = rc
		}
		clone.Comments[i] = cc
	}
	return &clone
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
