package repositories

import "errors"

// Sentinel errors shared across repositories. Services re-export the
// ones callers are expected to branch on; pkg/utils maps them onto
// HTTP statuses.
var (
	// NotFound
	ErrUserNotFound          = errors.New("user not found")
	ErrPostNotFound          = errors.New("post not found")
	ErrCommentNotFound       = errors.New("comment not found")
	ErrReplyNotFound         = errors.New("reply not found")
	ErrLikeNotFound          = errors.New("no like to remove")
	ErrFriendRequestNotFound = errors.New("friend request not found")
	ErrNotFriends            = errors.New("users are not friends")
	ErrChatNotFound          = errors.New("chat not found")
	ErrChatroomNotFound      = errors.New("chatroom not found")
	ErrChatMemberNotFound    = errors.New("user not currently in chat")

	// Conflict
	ErrAlreadyLiked         = errors.New("already liked")
	ErrCannotFriendSelf     = errors.New("cannot send friend request to yourself")
	ErrFriendRequestExists  = errors.New("friend request already exists between these users")
	ErrAlreadyFriends       = errors.New("already friends with this user")
	ErrChatroomExists       = errors.New("chatroom with this title already exists")
	ErrAlreadyChatMember    = errors.New("user is already in the chatroom")

	// Unauthorized
	ErrNotAuthorized = errors.New("not authorized to perform this action")

	// InvalidInput
	ErrEmptyContent = errors.New("content cannot be empty")
)
