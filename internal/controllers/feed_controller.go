package controllers

import (
	"net/http"
	"strconv"

	"social-app/internal/models"
	"social-app/internal/services"
	"social-app/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FeedController struct {
	feedService     *services.FeedService
	reactionService *services.ReactionService
}

func NewFeedController(feedService *services.FeedService, reactionService *services.ReactionService) *FeedController {
	return &FeedController{feedService: feedService, reactionService: reactionService}
}

// CreatePost godoc
// @Summary Create a new post
// @Security BearerAuth
// @Tags feed
// @Accept json
// @Produce json
// @Param body body models.CreatePostRequest true "Post creation data"
// @Success 201 {object} models.Post
// @Failure 400 {object} gin.H
// @Failure 401 {object} gin.H
// @Router /api/posts [post]
func (c *FeedController) CreatePost(ctx *gin.Context) {
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	var req models.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	post, err := c.feedService.CreatePost(ctx.Request.Context(), userID, req)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, post)
}

// ListPosts godoc
// @Summary List posts, newest first
// @Security BearerAuth
// @Tags feed
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} models.PostListResponse
// @Router /api/posts [get]
func (c *FeedController) ListPosts(ctx *gin.Context) {
	page, _ := strconv.ParseInt(ctx.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.DefaultQuery("limit", "20"), 10, 64)

	resp, err := c.feedService.ListPosts(ctx.Request.Context(), page, limit)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *FeedController) GetPost(ctx *gin.Context) {
	postID, err := utils.ObjectIDParam(ctx, "id")
	if err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	post, err := c.feedService.GetPost(ctx.Request.Context(), postID)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, post)
}

func (c *FeedController) DeletePost(ctx *gin.Context) {
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}
	postID, err := utils.ObjectIDParam(ctx, "id")
	if err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.feedService.DeletePost(ctx.Request.Context(), userID, postID); err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Reactions

func (c *FeedController) LikePost(ctx *gin.Context) {
	c.withPost(ctx, func(actorID, postID primitive.ObjectID) (*models.Post, error) {
		return c.reactionService.AddPostLike(ctx.Request.Context(), actorID, postID)
	})
}

func (c *FeedController) UnlikePost(ctx *gin.Context) {
	c.withPost(ctx, func(actorID, postID primitive.ObjectID) (*models.Post, error) {
		return c.reactionService.RemovePostLike(ctx.Request.Context(), actorID, postID)
	})
}

func (c *FeedController) AddComment(ctx *gin.Context) {
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}
	postID, err := utils.ObjectIDParam(ctx, "id")
	if err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	var req models.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	post, err := c.reactionService.AddComment(ctx.Request.Context(), userID, postID, req)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, post)
}

func (c *FeedController) DeleteComment(ctx *gin.Context) {
	userID, postID, commentID, ok := c.commentIDs(ctx)
	if !ok {
		return
	}
	post, err := c.reactionService.DeleteComment(ctx.Request.Context(), userID, postID, commentID)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, post)
}

func (c *FeedController) EditComment(ctx *gin.Context) {
	userID, postID, commentID, ok := c.commentIDs(ctx)
	if !ok {
		return
	}

	var req models.EditCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	post, err := c.reactionService.EditComment(ctx.Request.Context(), userID, postID, commentID, req.Content)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, post)
}

func (c *FeedController) LikeComment(ctx *gin.Context) {
	userID, postID, commentID, ok := c.commentIDs(ctx)
	if !ok {
		return
	}
	post, err := c.reactionService.AddCommentLike(ctx.Request.Context(), userID, postID, commentID)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, post)
}

func (c *FeedController) UnlikeComment(ctx *gin.Context) {
	userID, postID, commentID, ok := c.commentIDs(ctx)
	if !ok {
		return
	}
	post, err := c.reactionService.RemoveCommentLike(ctx.Request.Context(), userID, postID, commentID)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, post)
}

func (c *FeedController) AddReply(ctx *gin.Context) {
	userID, postID, commentID, ok := c.commentIDs(ctx)
	if !ok {
		return
	}

	var req models.CreateReplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	post, err := c.reactionService.AddReply(ctx.Request.Context(), userID, postID, commentID, req)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, post)
}

func (c *FeedController) DeleteReply(ctx *gin.Context) {
	userID, postID, commentID, replyID, ok := c.replyIDs(ctx)
	if !ok {
		return
	}
	post, err := c.reactionService.DeleteReply(ctx.Request.Context(), userID, postID, commentID, replyID)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, post)
}

func (c *FeedController) EditReply(ctx *gin.Context) {
	userID, postID, commentID, replyID, ok := c.replyIDs(ctx)
	if !ok {
		return
	}

	var req models.EditReplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	post, err := c.reactionService.EditReply(ctx.Request.Context(), userID, postID, commentID, replyID, req.Content)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, post)
}

func (c *FeedController) LikeReply(ctx *gin.Context) {
	userID, postID, commentID, replyID, ok := c.replyIDs(ctx)
	if !ok {
		return
	}
	post, err := c.reactionService.AddReplyLike(ctx.Request.Context(), userID, postID, commentID, replyID)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, post)
}

func (c *FeedController) UnlikeReply(ctx *gin.Context) {
	userID, postID, commentID, replyID, ok := c.replyIDs(ctx)
	if !ok {
		return
	}
	post, err := c.reactionService.RemoveReplyLike(ctx.Request.Context(), userID, postID, commentID, replyID)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, post)
}

func (c *FeedController) withPost(ctx *gin.Context, op func(actorID, postID primitive.ObjectID) (*models.Post, error)) {
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}
	postID, err := utils.ObjectIDParam(ctx, "id")
	if err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	post, err := op(userID, postID)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, post)
}

func (c *FeedController) commentIDs(ctx *gin.Context) (userID, postID, commentID primitive.ObjectID, ok bool) {
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}
	if postID, err = utils.ObjectIDParam(ctx, "id"); err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}
	if commentID, err = utils.ObjectIDParam(ctx, "commentID"); err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}
	return userID, postID, commentID, true
}

func (c *FeedController) replyIDs(ctx *gin.Context) (userID, postID, commentID, replyID primitive.ObjectID, ok bool) {
	userID, postID, commentID, ok = c.commentIDs(ctx)
	if !ok {
		return
	}
	replyID, err := utils.ObjectIDParam(ctx, "replyID")
	if err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return userID, postID, commentID, replyID, false
	}
	return userID, postID, commentID, replyID, true
}
