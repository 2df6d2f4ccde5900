package handler

import (
	"errors"
	"net/http"

	"foodgram/internal/http-api/service"
	"foodgram/internal/storage"

	"github.com/gin-gonic/gin"
)

// respondError maps service sentinels to HTTP statuses. Every validation
// failure carries its specific message; anything unrecognized is a 500 with
// the detail kept out of the response body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyExists),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrEmptyIngredients),
		errors.Is(err, service.ErrDuplicateIngredient),
		errors.Is(err, service.ErrUnknownIngredient),
		errors.Is(err, service.ErrSelfSubscription),
		errors.Is(err, service.ErrIngredientsRequired),
		errors.Is(err, storage.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
