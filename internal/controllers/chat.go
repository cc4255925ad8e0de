package controllers

import (
	"context"
	"net/http"

	"social-app/internal/models"
	"social-app/internal/services"
	"social-app/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatController struct {
	chatService *services.ChatService
}

func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

func (c *ChatController) SendDirectMessage(ctx *gin.Context) {
	senderID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}
	recipientID, err := utils.ObjectIDParam(ctx, "userID")
	if err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	var req models.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	chat, err := c.chatService.SendDirectMessage(ctx.Request.Context(), senderID, recipientID, req.Body)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, chat)
}

func (c *ChatController) GetChat(ctx *gin.Context) {
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}
	chatID, err := utils.ObjectIDParam(ctx, "id")
	if err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	chat, err := c.chatService.GetChat(ctx.Request.Context(), userID, chatID)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, chat)
}

// Chatrooms

func (c *ChatController) CreateRoom(ctx *gin.Context) {
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	var req models.CreateChatroomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	room, err := c.chatService.CreateRoom(ctx.Request.Context(), userID, req.Title)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, room)
}

func (c *ChatController) GetRoom(ctx *gin.Context) {
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}
	roomID, err := utils.ObjectIDParam(ctx, "id")
	if err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	room, err := c.chatService.GetRoom(ctx.Request.Context(), userID, roomID)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, room)
}

func (c *ChatController) AddRoomMember(ctx *gin.Context) {
	c.memberOp(ctx, c.chatService.AddRoomMember)
}

func (c *ChatController) RemoveRoomMember(ctx *gin.Context) {
	c.memberOp(ctx, c.chatService.RemoveRoomMember)
}

func (c *ChatController) LeaveRoom(ctx *gin.Context) {
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}
	roomID, err := utils.ObjectIDParam(ctx, "id")
	if err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.chatService.LeaveRoom(ctx.Request.Context(), userID, roomID); err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *ChatController) SendRoomMessage(ctx *gin.Context) {
	senderID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}
	roomID, err := utils.ObjectIDParam(ctx, "id")
	if err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	var req models.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	room, err := c.chatService.SendRoomMessage(ctx.Request.Context(), senderID, roomID, req.Body)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, room)
}

// Inbox

func (c *ChatController) UnreadCount(ctx *gin.Context) {
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	resp, err := c.chatService.UnreadCount(ctx.Request.Context(), userID)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *ChatController) MarkInboxRead(ctx *gin.Context) {
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	if err := c.chatService.MarkInboxRead(ctx.Request.Context(), userID); err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *ChatController) memberOp(ctx *gin.Context, op func(ctxReq context.Context, actorID, roomID, userID primitive.ObjectID) error) {
	actorID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}
	roomID, err := utils.ObjectIDParam(ctx, "id")
	if err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	var req models.ChatroomMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, "invalid user_id")
		return
	}

	if err := op(ctx.Request.Context(), actorID, roomID, userID); err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
