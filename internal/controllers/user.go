package controllers

import (
	"net/http"

	"social-app/config"
	"social-app/internal/models"
	appredis "social-app/internal/redis"
	"social-app/internal/services"
	"social-app/pkg/middleware"
	"social-app/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService *services.UserService
	cfg         *config.Config
	redisClient *appredis.ClusterClient
}

func NewUserController(userService *services.UserService, cfg *config.Config, redisClient *appredis.ClusterClient) *UserController {
	return &UserController{userService: userService, cfg: cfg, redisClient: redisClient}
}

func (c *UserController) Register(ctx *gin.Context) {
	var user models.User
	if err := ctx.ShouldBindJSON(&user); err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := c.userService.Register(ctx.Request.Context(), &user)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}

	token, err := utils.IssueAccessToken(resp.ID, c.cfg.JWTSecret, c.cfg.AccessTokenTTL)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusInternalServerError, "failed to issue token")
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"user": resp, "access_token": token})
}

// Logout blacklists the presented access token for the remainder of
// its lifetime.
func (c *UserController) Logout(ctx *gin.Context) {
	if err := middleware.BlacklistToken(ctx.GetHeader("Authorization"), c.cfg.AccessTokenTTL, c.redisClient); err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (c *UserController) Me(ctx *gin.Context) {
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		utils.RespondWithError(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	resp, err := c.userService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *UserController) GetUser(ctx *gin.Context) {
	userID, err := utils.ObjectIDParam(ctx, "id")
	if err != nil {
		utils.RespondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := c.userService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *UserController) Search(ctx *gin.Context) {
	name := ctx.Query("q")
	if name == "" {
		utils.RespondWithError(ctx, http.StatusBadRequest, "query parameter q is required")
		return
	}

	users, err := c.userService.Search(ctx.Request.Context(), name)
	if err != nil {
		utils.RespondWithServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"users": users})
}
