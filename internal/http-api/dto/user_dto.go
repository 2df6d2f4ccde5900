package dto

import "foodgram/internal/http-api/service"

// UserResponse is the profile representation used across the API.
type UserResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

// UserWithRecipesResponse adds the author's recipes, for subscribe responses
// and the subscriptions listing.
type UserWithRecipesResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// AvatarRequest: payload for PUT /api/users/me/avatar, base64 data URL
type AvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

type AvatarResponse struct {
	Avatar string `json:"avatar"`
}

// Converters
func FromUserProfile(p service.UserProfile) UserResponse {
	return UserResponse{
		ID:           p.User.ID,
		Email:        p.User.Email,
		Username:     p.User.Username,
		FirstName:    p.User.FirstName,
		LastName:     p.User.LastName,
		IsSubscribed: p.IsSubscribed,
		Avatar:       p.User.AvatarURL,
	}
}

func FromUserWithRecipes(u service.UserWithRecipes) UserWithRecipesResponse {
	recipes := make([]RecipeShortResponse, 0, len(u.Recipes))
	for _, r := range u.Recipes {
		recipes = append(recipes, FromRecipeShort(r))
	}
	return UserWithRecipesResponse{
		UserResponse: FromUserProfile(service.UserProfile{
			User:         u.User,
			IsSubscribed: u.IsSubscribed,
		}),
		Recipes:      recipes,
		RecipesCount: u.RecipesCount,
	}
}
