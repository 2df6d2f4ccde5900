package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"foodgram/internal/http-api/dto"
	"foodgram/internal/http-api/middleware"
	"foodgram/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService     service.UserService
	relationService service.RelationService
}

func NewUserHandler(userService service.UserService, relationService service.RelationService) *UserHandler {
	return &UserHandler{userService: userService, relationService: relationService}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc) {
	rg.GET("", optionalAuth, h.List)
	rg.GET("/me", requireAuth, h.Me)
	rg.PUT("/me/avatar", requireAuth, h.SetAvatar)
	rg.DELETE("/me/avatar", requireAuth, h.DeleteAvatar)
	rg.GET("/subscriptions", requireAuth, h.Subscriptions)
	rg.GET("/:user_id", optionalAuth, h.Get)
	rg.POST("/:user_id/subscribe", requireAuth, h.Subscribe)
	rg.DELETE("/:user_id/subscribe", requireAuth, h.Unsubscribe)
}

func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profiles, total, err := h.userService.List(ctx, middleware.UserID(c), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.UserResponse, 0, len(profiles))
	for _, p := range profiles {
		resp = append(resp, dto.FromUserProfile(p))
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       resp,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

func (h *UserHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profile, err := h.userService.GetProfile(ctx, middleware.UserID(c), c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUserProfile(*profile))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profile, err := h.userService.GetProfile(ctx, userID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUserProfile(*profile))
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	var req dto.AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	url, err := h.userService.SetAvatar(ctx, middleware.UserID(c), req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AvatarResponse{Avatar: url})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.userService.DeleteAvatar(ctx, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions returns the authors the current user follows, each with up
// to recipes_limit recipes.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	page, pageSize := parsePagination(c)
	recipesLimit := parseRecipesLimit(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	authors, total, err := h.userService.Subscriptions(ctx, middleware.UserID(c), recipesLimit, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.UserWithRecipesResponse, 0, len(authors))
	for _, a := range authors {
		resp = append(resp, dto.FromUserWithRecipes(a))
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       resp,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	author, err := h.relationService.Subscribe(ctx, middleware.UserID(c), c.Param("user_id"), parseRecipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromUserWithRecipes(*author))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.relationService.Unsubscribe(ctx, middleware.UserID(c), c.Param("user_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseRecipesLimit caps the recipes embedded per author; 0 means all.
func parseRecipesLimit(c *gin.Context) int {
	if raw := c.Query("recipes_limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 0
}
