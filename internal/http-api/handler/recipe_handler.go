package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"foodgram/internal/http-api/dto"
	"foodgram/internal/http-api/middleware"
	"foodgram/internal/http-api/repository"
	"foodgram/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// ShortLinker abstracts the short-link store so handler tests don't need
// redis.
type ShortLinker interface {
	Code(ctx context.Context, recipeID int64) (string, error)
}

type RecipeHandler struct {
	svc         service.RecipeService
	relationSvc service.RelationService
	listSvc     service.ShoppingListService
	userSvc     service.UserService
	shortLinks  ShortLinker
	baseURL     string
}

func NewRecipeHandler(
	svc service.RecipeService,
	relationSvc service.RelationService,
	listSvc service.ShoppingListService,
	userSvc service.UserService,
	shortLinks ShortLinker,
	baseURL string,
) *RecipeHandler {
	return &RecipeHandler{
		svc:         svc,
		relationSvc: relationSvc,
		listSvc:     listSvc,
		userSvc:     userSvc,
		shortLinks:  shortLinks,
		baseURL:     baseURL,
	}
}

func (h *RecipeHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc) {
	rg.GET("", optionalAuth, h.List)
	rg.GET("/download_shopping_cart", requireAuth, h.DownloadShoppingCart)
	rg.GET("/:recipe_id", optionalAuth, h.Get)
	rg.GET("/:recipe_id/get-link", h.GetLink)

	rg.POST("", requireAuth, h.Create)
	rg.PUT("/:recipe_id", requireAuth, h.Update)
	rg.PATCH("/:recipe_id", requireAuth, h.Update)
	rg.DELETE("/:recipe_id", requireAuth, h.Delete)

	rg.POST("/:recipe_id/favorite", requireAuth, h.AddFavorite)
	rg.DELETE("/:recipe_id/favorite", requireAuth, h.RemoveFavorite)
	rg.POST("/:recipe_id/shopping_cart", requireAuth, h.AddToCart)
	rg.DELETE("/:recipe_id/shopping_cart", requireAuth, h.RemoveFromCart)
}

func (h *RecipeHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)
	viewerID := middleware.UserID(c)

	filter := repository.RecipeFilter{AuthorID: c.Query("author")}
	// the relation filters only make sense for a logged-in viewer
	if viewerID != "" {
		if c.Query("is_favorited") == "1" {
			filter.FavoritedBy = viewerID
		}
		if c.Query("is_in_shopping_cart") == "1" {
			filter.InCartOf = viewerID
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	details, total, err := h.svc.List(ctx, viewerID, filter, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.RecipeResponse, 0, len(details))
	for _, d := range details {
		resp = append(resp, dto.FromRecipeDetail(d))
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       resp,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	detail, err := h.svc.GetByID(ctx, middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromRecipeDetail(*detail))
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req dto.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	detail, err := h.svc.Create(ctx, middleware.UserID(c), req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromRecipeDetail(*detail))
}

// Update handles both PUT (full replace, ingredient list mandatory) and
// PATCH (partial).
func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req dto.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	full := c.Request.Method == http.MethodPut
	detail, err := h.svc.Update(ctx, id, middleware.UserID(c), req.ToUpdate(full))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromRecipeDetail(*detail))
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, id, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetLink returns a short link for sharing the recipe.
func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// 404 for unknown recipes before minting a link
	if _, err := h.svc.GetByID(ctx, "", id); err != nil {
		respondError(c, err)
		return
	}

	code, err := h.shortLinks.Code(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"short-link": fmt.Sprintf("%s/s/%s", h.baseURL, code)})
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addRelation(c, service.KindFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeRelation(c, service.KindFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addRelation(c, service.KindShoppingCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, service.KindShoppingCart)
}

func (h *RecipeHandler) addRelation(c *gin.Context, kind service.RelationKind) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipe, err := h.relationSvc.AddRecipeRelation(ctx, middleware.UserID(c), id, kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromRecipeShort(*recipe))
}

func (h *RecipeHandler) removeRelation(c *gin.Context, kind service.RelationKind) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.relationSvc.RemoveRecipeRelation(ctx, middleware.UserID(c), id, kind); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart streams the consolidated shopping list as a text
// attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	profile, err := h.userSvc.GetProfile(ctx, userID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	export, err := h.listSvc.BuildExport(ctx, &profile.User)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(export))
}

func recipeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("recipe_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe_id"})
		return 0, false
	}
	return id, true
}
