package dto

import (
	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/service"
)

// RecipeIngredientRequest is one submitted ingredient line.
type RecipeIngredientRequest struct {
	ID     int64 `json:"id" binding:"required"`
	Amount int   `json:"amount" binding:"required,min=1"`
}

// CreateRecipeRequest used for POST /api/recipes
type CreateRecipeRequest struct {
	Name        string                    `json:"name" binding:"required,max=256"`
	Text        string                    `json:"text" binding:"required"`
	Image       string                    `json:"image" binding:"required"`
	CookingTime int                       `json:"cooking_time" binding:"required,min=1"`
	Ingredients []RecipeIngredientRequest `json:"ingredients" binding:"required"`
}

// UpdateRecipeRequest used for PUT/PATCH /api/recipes/:recipe_id. On PUT the
// ingredient list is mandatory (full replace); on PATCH omitted fields stay
// untouched.
type UpdateRecipeRequest struct {
	Name        *string                   `json:"name,omitempty" binding:"omitempty,max=256"`
	Text        *string                   `json:"text,omitempty"`
	Image       *string                   `json:"image,omitempty"`
	CookingTime *int                      `json:"cooking_time,omitempty" binding:"omitempty,min=1"`
	Ingredients []RecipeIngredientRequest `json:"ingredients,omitempty"`
}

// RecipeShortResponse is the abbreviated view returned by relation endpoints
// and embedded in user-with-recipes responses.
type RecipeShortResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type RecipeIngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full read representation.
type RecipeResponse struct {
	ID               int64                      `json:"id"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// Converters
func (r CreateRecipeRequest) ToInput() service.RecipeInput {
	return service.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		Ingredients: toIngredientAmounts(r.Ingredients),
	}
}

func (r UpdateRecipeRequest) ToUpdate(full bool) service.RecipeUpdate {
	upd := service.RecipeUpdate{
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		Full:        full,
	}
	if r.Ingredients != nil {
		upd.Ingredients = toIngredientAmounts(r.Ingredients)
	}
	return upd
}

func toIngredientAmounts(items []RecipeIngredientRequest) []service.IngredientAmount {
	amounts := make([]service.IngredientAmount, 0, len(items))
	for _, item := range items {
		amounts = append(amounts, service.IngredientAmount{
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	return amounts
}

func FromRecipeShort(r models.Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

func FromRecipeDetail(d service.RecipeDetail) RecipeResponse {
	ingredients := make([]RecipeIngredientResponse, 0, len(d.Recipe.RecipeIngredients))
	for _, line := range d.Recipe.RecipeIngredients {
		resp := RecipeIngredientResponse{Amount: line.Amount}
		if line.Ingredient != nil {
			resp.ID = line.Ingredient.ID
			resp.Name = line.Ingredient.Name
			resp.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, resp)
	}

	var author UserResponse
	if d.Recipe.Author != nil {
		author = FromUserProfile(service.UserProfile{
			User:         *d.Recipe.Author,
			IsSubscribed: d.AuthorSubscribed,
		})
	}

	return RecipeResponse{
		ID:               d.Recipe.ID,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      d.IsFavorited,
		IsInShoppingCart: d.IsInShoppingCart,
		Name:             d.Recipe.Name,
		Image:            d.Recipe.ImageURL,
		Text:             d.Recipe.Text,
		CookingTime:      d.Recipe.CookingTime,
	}
}
