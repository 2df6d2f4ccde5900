package repository

import (
	"context"
	"fmt"

	"foodgram/internal/http-api/models"

	"gorm.io/gorm"
)

// CartLine is one flat (ingredient, amount) row joined across the recipes in
// a user's shopping cart. Grouping and summing happen in the service so the
// aggregation is testable without a database.
type CartLine struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// RelationRepository covers the two user<->recipe relation tables. Add
// methods surface gorm.ErrDuplicatedKey unchanged so the service can map a
// lost insert race to the same client error as the synchronous check; Remove
// methods report rows affected so a missing relation is distinguishable.
type RelationRepository interface {
	AddFavorite(ctx context.Context, userID string, recipeID int64) error
	RemoveFavorite(ctx context.Context, userID string, recipeID int64) (int64, error)
	IsFavorited(ctx context.Context, userID string, recipeID int64) (bool, error)

	AddToCart(ctx context.Context, userID string, recipeID int64) error
	RemoveFromCart(ctx context.Context, userID string, recipeID int64) (int64, error)
	IsInCart(ctx context.Context, userID string, recipeID int64) (bool, error)

	FavoritedSet(ctx context.Context, userID string, recipeIDs []int64) (map[int64]bool, error)
	InCartSet(ctx context.Context, userID string, recipeIDs []int64) (map[int64]bool, error)

	CartLines(ctx context.Context, userID string) ([]CartLine, error)
	CartRecipes(ctx context.Context, userID string) ([]models.Recipe, error)
}

type relationRepository struct {
	db *gorm.DB
}

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

func (r *relationRepository) AddFavorite(ctx context.Context, userID string, recipeID int64) error {
	fav := &models.FavoriteRecipe{UserID: userID, RecipeID: recipeID}
	return r.db.WithContext(ctx).Create(fav).Error
}

func (r *relationRepository) RemoveFavorite(ctx context.Context, userID string, recipeID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.FavoriteRecipe{})
	if result.Error != nil {
		return 0, fmt.Errorf("remove favorite: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *relationRepository) IsFavorited(ctx context.Context, userID string, recipeID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FavoriteRecipe{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *relationRepository) AddToCart(ctx context.Context, userID string, recipeID int64) error {
	item := &models.ShoppingCart{UserID: userID, RecipeID: recipeID}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *relationRepository) RemoveFromCart(ctx context.Context, userID string, recipeID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCart{})
	if result.Error != nil {
		return 0, fmt.Errorf("remove from cart: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *relationRepository) IsInCart(ctx context.Context, userID string, recipeID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ShoppingCart{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FavoritedSet reports which of the given recipes the user has favorited,
// in one query for list rendering.
func (r *relationRepository) FavoritedSet(ctx context.Context, userID string, recipeIDs []int64) (map[int64]bool, error) {
	set := make(map[int64]bool, len(recipeIDs))
	if userID == "" || len(recipeIDs) == 0 {
		return set, nil
	}
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&models.FavoriteRecipe{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// InCartSet reports which of the given recipes sit in the user's cart.
func (r *relationRepository) InCartSet(ctx context.Context, userID string, recipeIDs []int64) (map[int64]bool, error) {
	set := make(map[int64]bool, len(recipeIDs))
	if userID == "" || len(recipeIDs) == 0 {
		return set, nil
	}
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&models.ShoppingCart{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// CartLines joins every ingredient line of every recipe in the user's cart.
// One row per RecipeIngredient, not yet summed.
func (r *relationRepository) CartLines(ctx context.Context, userID string) ([]CartLine, error) {
	var lines []CartLine
	if err := r.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Scan(&lines).Error; err != nil {
		return nil, fmt.Errorf("cart lines: %w", err)
	}
	return lines, nil
}

func (r *relationRepository) CartRecipes(ctx context.Context, userID string) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := r.db.WithContext(ctx).
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipes.id").
		Where("shopping_carts.user_id = ?", userID).
		Preload("Author").
		Order("recipes.name asc").
		Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("cart recipes: %w", err)
	}
	return recipes, nil
}
