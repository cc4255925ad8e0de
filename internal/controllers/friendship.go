package controllers

import (
	"net/http"

	"social-app/internal/services"
	"social-app/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FriendshipController struct {
	friendshipService *services.FriendshipService
}

func NewFriendshipController(friendshipService *services.FriendshipService) *FriendshipController {
	return &FriendshipController{friendshipService: friendshipService}
}

// SendRequest godoc
// @Summary Send a friend request
// @Security BearerAuth
// @Tags friends
// @Produce json
// @Param userID path string true "Receiver user ID"
// @Success 201 {object} models.Friendship
// @Failure 400 {object} gin.H
// @Failure 409 {object} gin.H
// @Router /api/friends/requests/{userID} [post]
func (c *FriendshipController) SendRequest(ctx *gin.Context) {
	requesterID, receiverID, ok := c.pair(ctx)
	if !ok {
		return
	}

	friendship, err := c.friendshipService.SendRequest(ctx.Request.Context(), requesterID, receiverID)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, friendship)
}

func (c *FriendshipController) AcceptRequest(ctx *gin.Context) {
	receiverID, requesterID, ok := c.pair(ctx)
	if !ok {
		return
	}

	if err := c.friendshipService.AcceptRequest(ctx.Request.Context(), receiverID, requesterID); err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "accepted"})
}

func (c *FriendshipController) DeclineRequest(ctx *gin.Context) {
	receiverID, requesterID, ok := c.pair(ctx)
	if !ok {
		return
	}

	if err := c.friendshipService.DeclineRequest(ctx.Request.Context(), receiverID, requesterID); err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *FriendshipController) CancelRequest(ctx *gin.Context) {
	requesterID, receiverID, ok := c.pair(ctx)
	if !ok {
		return
	}

	if err := c.friendshipService.CancelRequest(ctx.Request.Context(), requesterID, receiverID); err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *FriendshipController) RemoveFriend(ctx *gin.Context) {
	userID, friendID, ok := c.pair(ctx)
	if !ok {
		return
	}

	if err := c.friendshipService.RemoveFriend(ctx.Request.Context(), userID, friendID); err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *FriendshipController) ListRequests(ctx *gin.Context) {
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	requests, err := c.friendshipService.ListRequests(ctx.Request.Context(), userID)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (c *FriendshipController) pair(ctx *gin.Context) (self, other primitive.ObjectID, ok bool) {
	self, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}
	if other, err = utils.ObjectIDParam(ctx, "userID"); err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}
	return self, other, true
}
