package controllers

import (
	"net/http"

	"social-app/internal/models"
	"social-app/internal/notifications"
	"social-app/pkg/utils"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	notificationService *notifications.Service
}

func NewNotificationController(notificationService *notifications.Service) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// List godoc
// @Summary List the caller's notification feed, newest first
// @Security BearerAuth
// @Tags notifications
// @Produce json
// @Success 200 {object} models.NotificationListResponse
// @Router /api/notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	resp, err := c.notificationService.List(ctx.Request.Context(), userID)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *NotificationController) Count(ctx *gin.Context) {
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	count, err := c.notificationService.Count(ctx.Request.Context(), userID)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"count": count})
}

func (c *NotificationController) MarkRead(ctx *gin.Context) {
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	if err := c.notificationService.MarkRead(ctx.Request.Context(), userID); err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Clear accepts scope "all" or a single alert type.
func (c *NotificationController) Clear(ctx *gin.Context) {
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	var req models.ClearNotificationsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	alertType := models.AlertType(req.Scope)
	if req.Scope == "all" {
		alertType = ""
	}

	if err := c.notificationService.Clear(ctx.Request.Context(), userID, alertType); err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
