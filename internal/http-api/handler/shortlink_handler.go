package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"foodgram/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// ShortLinkResolver is the read side of the short-link store.
type ShortLinkResolver interface {
	Resolve(ctx context.Context, code string) (int64, error)
}

// ShortLinkHandler redirects GET /s/:code to the recipe page.
type ShortLinkHandler struct {
	resolver  ShortLinkResolver
	recipeSvc service.RecipeService
}

func NewShortLinkHandler(resolver ShortLinkResolver, recipeSvc service.RecipeService) *ShortLinkHandler {
	return &ShortLinkHandler{resolver: resolver, recipeSvc: recipeSvc}
}

func (h *ShortLinkHandler) Redirect(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	id, err := h.resolver.Resolve(ctx, c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "short link not found"})
		return
	}

	// a stale link to a deleted recipe is still a 404
	if _, err := h.recipeSvc.GetByID(ctx, "", id); err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/recipes/%d/", id))
}
