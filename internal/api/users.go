package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type UserHandler struct {
	users         service.IUserService
	subscriptions service.ISubscriptionService
	tokens        middleware.TokenValidator
	log           *zap.Logger
	pager         paginator
}

func NewUserHandler(users service.IUserService, subscriptions service.ISubscriptionService, tokens middleware.TokenValidator, log *zap.Logger, pager paginator) *UserHandler {
	return &UserHandler{
		users:         users,
		subscriptions: subscriptions,
		tokens:        tokens,
		log:           log,
		pager:         pager,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.tokens)
	optional := middleware.OptionalAuth(h.tokens)

	users := router.Group("/users")
	{
		users.GET("/", optional, h.ListUsers)
		users.POST("/", h.Register)
		users.GET("/me/", auth, h.Me)
		users.PUT("/me/avatar/", auth, h.SetAvatar)
		users.DELETE("/me/avatar/", auth, h.DeleteAvatar)
		users.POST("/set_password/", auth, h.SetPassword)
		users.GET("/subscriptions/", auth, h.Subscriptions)
		users.GET("/:id/", optional, h.GetUser)
		users.POST("/:id/subscribe/", auth, h.Subscribe)
		users.DELETE("/:id/subscribe/", auth, h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	viewerID, _ := middleware.UserID(c)
	page := h.pager.Request(c)

	users, total, err := h.users.List(c.Request.Context(), viewerID, page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, paginate(h.pager, c, page, users, total))
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	user, err := h.users.Get(c.Request.Context(), userID, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	viewerID, _ := middleware.UserID(c)

	user, err := h.users.Get(c.Request.Context(), viewerID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.users.SetPassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	var req types.AvatarRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := middleware.UserID(c)

	avatar, err := h.users.SetAvatar(c.Request.Context(), userID, req.Avatar)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, types.AvatarResponse{Avatar: avatar})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	if err := h.users.DeleteAvatar(c.Request.Context(), userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions lists the authors the user follows
func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	page := h.pager.Request(c)

	authors, total, err := h.subscriptions.List(c.Request.Context(), userID, page, recipesLimit(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, paginate(h.pager, c, page, authors, total))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := parseID(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	author, err := h.subscriptions.Subscribe(c.Request.Context(), userID, authorID, recipesLimit(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, author)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := parseID(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.subscriptions.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recipesLimit parses ?recipes_limit=. A missing or unusable value means
// no limit; an explicit 0 asks for no recipes.
func recipesLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return service.NoRecipesLimit
	}
	return n
}
