package models

import "time"

// FavoriteRecipe and ShoppingCart are the two user<->recipe relation tables.
// Both carry the same shape and the same (user_id, recipe_id) uniqueness; the
// relation service dispatches between them by kind instead of generating
// table names dynamically.

type FavoriteRecipe struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID   string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID int64     `json:"recipe_id" gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	AddedAt  time.Time `json:"added_at" gorm:"autoCreateTime"`

	// Associations
	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Recipe *Recipe `json:"recipe,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE;"`
}

func (FavoriteRecipe) TableName() string {
	return "favorite_recipes"
}

type ShoppingCart struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID   string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_recipe"`
	RecipeID int64     `json:"recipe_id" gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	AddedAt  time.Time `json:"added_at" gorm:"autoCreateTime"`

	// Associations
	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Recipe *Recipe `json:"recipe,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE;"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}
