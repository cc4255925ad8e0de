package utils

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"social-app/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RespondWithError sends a JSON error response with the given status code and message
func RespondWithError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error": gin.H{
			"status":  statusCode,
			"message": message,
		},
	})
	c.Abort()
}

// RespondWithServiceError maps a service error onto its HTTP status.
func RespondWithServiceError(c *gin.Context, err error) {
	RespondWithError(c, GetStatusCode(err), err.Error())
}

// GetStatusCode determines the appropriate HTTP status code for different error types
func GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, repositories.ErrPostNotFound),
		errors.Is(err, repositories.ErrCommentNotFound),
		errors.Is(err, repositories.ErrReplyNotFound),
		errors.Is(err, repositories.ErrLikeNotFound),
		errors.Is(err, repositories.ErrFriendRequestNotFound),
		errors.Is(err, repositories.ErrChatNotFound),
		errors.Is(err, repositories.ErrChatroomNotFound),
		errors.Is(err, repositories.ErrChatMemberNotFound):
		return http.StatusNotFound
	case errors.Is(err, repositories.ErrAlreadyLiked),
		errors.Is(err, repositories.ErrFriendRequestExists),
		errors.Is(err, repositories.ErrAlreadyFriends),
		errors.Is(err, repositories.ErrChatroomExists),
		errors.Is(err, repositories.ErrAlreadyChatMember):
		return http.StatusConflict
	case errors.Is(err, repositories.ErrNotAuthorized),
		errors.Is(err, repositories.ErrNotFriends):
		return http.StatusForbidden
	case errors.Is(err, repositories.ErrCannotFriendSelf),
		errors.Is(err, repositories.ErrEmptyContent):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetUserIDFromContext extracts user ID from Gin context (set by auth middleware)
func GetUserIDFromContext(c *gin.Context) (primitive.ObjectID, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return primitive.NilObjectID, fmt.Errorf("authentication required")
	}

	switch v := userID.(type) {
	case string:
		return primitive.ObjectIDFromHex(v)
	case primitive.ObjectID:
		return v, nil
	default:
		return primitive.NilObjectID, fmt.Errorf("invalid user ID type")
	}
}

// ObjectIDParam parses a hex ObjectID path parameter.
func ObjectIDParam(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// IssueAccessToken signs a short-lived HMAC access token for a user.
func IssueAccessToken(userID primitive.ObjectID, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":   userID.Hex(),
		"type": "access",
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
